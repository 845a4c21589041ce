package console

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"text/scanner"

	"github.com/nrawrx3/unosim/players"
	"github.com/nrawrx3/unosim/simulator"
	"github.com/pkg/errors"
)

type CommandKind int

const (
	CmdNone CommandKind = iota
	CmdPlayers
	CmdSeed
	CmdGames
	CmdEnd
	CmdWorkers
	CmdHandSize
	CmdMaxTurns
	CmdRun
	CmdStats
	CmdShow
	CmdReset
	CmdLoad
	CmdConnect
	CmdDisconnect
	CmdHelp
	CmdQuit
)

func (k CommandKind) String() string {
	switch k {
	case CmdPlayers:
		return "players"
	case CmdSeed:
		return "seed"
	case CmdGames:
		return "games"
	case CmdEnd:
		return "end"
	case CmdWorkers:
		return "workers"
	case CmdHandSize:
		return "hand_size"
	case CmdMaxTurns:
		return "max_turns"
	case CmdRun:
		return "run"
	case CmdStats:
		return "stats"
	case CmdShow:
		return "show"
	case CmdReset:
		return "reset"
	case CmdLoad:
		return "load"
	case CmdConnect:
		return "connect"
	case CmdDisconnect:
		return "disconnect"
	case CmdHelp:
		return "help"
	case CmdQuit:
		return "quit"
	default:
		return fmt.Sprintf("CommandKind(%d)", int(k))
	}
}

// InputCommand is one parsed REPL line. Only the fields of its Kind are set.
type InputCommand struct {
	Kind    CommandKind
	Players []players.Kind
	Count   int
	Seed    int64
	End     simulator.EndCondition
	Path    string
	Address string
}

const usage = `commands:
	players KIND KIND...     (KIND is first_card|greedy|random|weighted)
	seed N
	games N
	end rounds N | end score N
	workers N                (0 means one per CPU)
	hand_size N
	max_turns N              (0 means unbounded)
	run                      (alias: r)
	stats                    (per-seat table of the last run)
	show                     (current settings)
	reset
	load FILE                (play one round from a table description)
	connect URL | disconnect (run batches on a simulation server)
	help
	quit                     (alias: q)
`

var loadRegex = regexp.MustCompile(`^load\s+(?P<path>.+)$`)
var connectRegex = regexp.MustCompile(`^connect\s+(?P<address>\S+)$`)

// Syntax: see usage.
func ParseCommandFromInput(input string) (InputCommand, error) {
	input = strings.TrimSpace(input)

	if strings.HasPrefix(input, "load") {
		return parseWithRegex(loadRegex, input, CmdLoad, "expected a `load <file>` command")
	}
	if strings.HasPrefix(input, "connect") {
		return parseWithRegex(connectRegex, input, CmdConnect, "expected a `connect <url>` command")
	}

	var s scanner.Scanner
	s.Init(strings.NewReader(input))
	s.Filename = "cmd"
	s.Mode = scanner.GoTokens
	s.Error = func(*scanner.Scanner, string) {}

	tok, command, err := parseCommand(&s, s.Scan())
	if err != nil {
		return command, err
	}

	if tok != scanner.EOF {
		return command, errors.Errorf("unexpected '%s' after %s command", s.TokenText(), command.Kind)
	}
	return command, nil
}

func parseCommand(s *scanner.Scanner, tok rune) (rune, InputCommand, error) {
	var command InputCommand

	if tok != scanner.Ident {
		return tok, command, errors.Errorf("expected a command, found: '%s' (try help)", s.TokenText())
	}

	switch strings.ToLower(s.TokenText()) {
	case "players", "p":
		command.Kind = CmdPlayers
		tok = s.Scan()
		for tok == scanner.Ident {
			kind, err := players.ParseKind(s.TokenText())
			if err != nil {
				return tok, command, err
			}
			command.Players = append(command.Players, kind)
			tok = s.Scan()
		}
		if len(command.Players) < 2 {
			return tok, command, errors.New("expected at least 2 player kinds")
		}
		return tok, command, nil

	case "seed":
		command.Kind = CmdSeed
		tok, seed, err := scanInt(s)
		command.Seed = seed
		return tok, command, err

	case "games", "workers", "hand_size", "max_turns":
		switch strings.ToLower(s.TokenText()) {
		case "games":
			command.Kind = CmdGames
		case "workers":
			command.Kind = CmdWorkers
		case "hand_size":
			command.Kind = CmdHandSize
		default:
			command.Kind = CmdMaxTurns
		}
		tok, n, err := scanInt(s)
		if err != nil {
			return tok, command, err
		}
		if n < 0 {
			return tok, command, errors.Errorf("%s must not be negative", command.Kind)
		}
		command.Count = int(n)
		return tok, command, nil

	case "end":
		command.Kind = CmdEnd
		tok = s.Scan()
		if tok != scanner.Ident {
			return tok, command, errors.Errorf("expected rounds or score, found '%s'", s.TokenText())
		}
		kind := s.TokenText()
		tok = s.Scan()
		if tok != scanner.Int {
			return tok, command, errors.Errorf("expected a number after %s, found '%s'", kind, s.TokenText())
		}
		end, err := simulator.ParseEndCondition(kind + " " + s.TokenText())
		if err != nil {
			return tok, command, err
		}
		command.End = end
		return s.Scan(), command, nil

	case "run", "r":
		command.Kind = CmdRun
	case "stats":
		command.Kind = CmdStats
	case "show":
		command.Kind = CmdShow
	case "reset":
		command.Kind = CmdReset
	case "disconnect":
		command.Kind = CmdDisconnect
	case "help", "h":
		command.Kind = CmdHelp
	case "quit", "q", "exit":
		command.Kind = CmdQuit

	default:
		return tok, command, errors.Errorf("unknown command '%s' (try help)", s.TokenText())
	}
	return s.Scan(), command, nil
}

// scanInt reads an optionally negative integer and the token after it.
func scanInt(s *scanner.Scanner) (rune, int64, error) {
	tok := s.Scan()
	sign := int64(1)
	if tok == '-' {
		sign = -1
		tok = s.Scan()
	}
	if tok != scanner.Int {
		return tok, 0, errors.Errorf("expected a number, found '%s'", s.TokenText())
	}
	n, err := strconv.ParseInt(s.TokenText(), 10, 64)
	if err != nil {
		return tok, 0, errors.Wrapf(err, "bad number '%s'", s.TokenText())
	}
	return s.Scan(), sign * n, nil
}

func parseWithRegex(re *regexp.Regexp, input string, kind CommandKind, message string) (InputCommand, error) {
	matches := re.FindStringSubmatch(input)
	if matches == nil {
		return InputCommand{}, errors.New(message)
	}

	command := InputCommand{Kind: kind}
	switch kind {
	case CmdLoad:
		command.Path = strings.TrimSpace(matches[re.SubexpIndex("path")])
	case CmdConnect:
		command.Address = matches[re.SubexpIndex("address")]
	}
	return command, nil
}
