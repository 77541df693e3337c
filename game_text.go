package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
)

type textCommand int

const (
	commandNone textCommand = iota
	commandExit
	commandRestart
	commandUndo
)

const optionsColumns = 3

// textUI plays a game on a terminal. Human players pick moves by index.
type textUI struct {
	in      *bufio.Scanner
	out     io.Writer
	pending textCommand
}

func newTextUI(in io.Reader, out io.Writer) *textUI {
	return &textUI{in: bufio.NewScanner(in), out: out}
}

func playerName(color uint8) string {
	return strings.ToUpper(colorName(color))
}

// selectMove is the moveSelector of human players. It returns false when the
// user asked for a command instead of a move.
func (ui *textUI) selectMove(board *Board, color uint8, moves []Move) (Move, bool) {
	fmt.Fprintf(ui.out, "%s\n\n", board.squares)
	fmt.Fprintf(ui.out, "PLAYER %s - possible moves:\n", playerName(color))
	rows := len(moves)/optionsColumns + 1
	for row := 0; row < rows; row++ {
		for col := 0; col < optionsColumns; col++ {
			if i := row + col*rows; i < len(moves) {
				fmt.Fprintf(ui.out, "   [%2d]: %-26s", i, moves[i])
			}
		}
		fmt.Fprintln(ui.out)
	}

	last := len(moves) - 1
	for {
		fmt.Fprintf(ui.out, "Make your decision ([%d,%d]): ", 0, last)
		if !ui.in.Scan() {
			fmt.Fprintln(ui.out, "Good Bye!")
			ui.pending = commandExit
			return Move{}, false
		}
		input := strings.TrimSpace(ui.in.Text())
		switch strings.ToLower(input) {
		case "exit":
			fmt.Fprintln(ui.out, "Quit Game.")
			ui.pending = commandExit
			return Move{}, false
		case "restart":
			fmt.Fprintln(ui.out, "Restart Game.")
			ui.pending = commandRestart
			return Move{}, false
		case "undo":
			fmt.Fprintln(ui.out, "Undo latest two plies.")
			ui.pending = commandUndo
			return Move{}, false
		}
		choice, err := strconv.Atoi(input)
		if err != nil {
			fmt.Fprintf(ui.out, "Invalid input '%s'! Has to be a valid number or one of [exit, restart, undo]. Please try again!\n", input)
			continue
		}
		if choice < 0 || choice > last {
			fmt.Fprintf(ui.out, "Invalid option '%d'. Has to be in [%d, %d]! Please try again!\n", choice, 0, last)
			continue
		}
		return moves[choice], true
	}
}

func (ui *textUI) printMove(color uint8, m Move) {
	fmt.Fprintf(ui.out, "%s: Chosen option: %s.\n", playerName(color), m)
}

func (ui *textUI) printResult(board *Board) {
	fmt.Fprintf(ui.out, "%s\n", board.squares)
	switch board.Result() {
	case whiteMated:
		fmt.Fprintln(ui.out, "WHITE is mate!")
	case blackMated:
		fmt.Fprintln(ui.out, "BLACK is mate!")
	case whiteStalemated:
		fmt.Fprintln(ui.out, "WHITE is stalemate!")
	case blackStalemated:
		fmt.Fprintln(ui.out, "BLACK is stalemate!")
	default:
		fmt.Fprintln(ui.out, "DRAW")
	}
}

// run drives g until it ends or the user exits, handling the commands typed
// at a human prompt between turns.
func (ui *textUI) run(ctx context.Context, g *game) error {
	g.onMove = func(m Move) {
		ui.printMove(g.turn, m)
	}
	for {
		if err := g.play(ctx); err != nil {
			return err
		}
		command := ui.pending
		ui.pending = commandNone
		switch command {
		case commandExit:
			return nil
		case commandRestart:
			g.restart()
		case commandUndo:
			if err := g.undo(); err != nil {
				fmt.Fprintf(ui.out, "Cannot undo: %s.\n", err)
			}
		default:
			ui.printResult(g.board)
			return nil
		}
	}
}
