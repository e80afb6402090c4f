// Command uci is the thin UCI protocol front end over the engine package: it
// owns stdin/stdout, position bookkeeping, and option parsing, and delegates
// everything search-shaped to engine.Engine. Grounded on the teacher's
// uci.go main loop shape (bufio.Scanner over stdin, a switch on the first
// token, sub-scanners for "go"/"position"/"setoption" token streams) with
// the teacher's tuning-parameter setoption cases replaced by this engine's
// actual Options fields.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ovcore/goosecore/engine"
	"github.com/ovcore/goosecore/position"
)

func main() {
	uciLoop()
}

func uciLoop() {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	startBoard := position.MustParseFEN(position.Startpos)
	board := &startBoard
	opts := engine.DefaultOptions()
	e := engine.NewEngine(opts)
	var gameHistory []engine.Key

	for scanner.Scan() {
		line := scanner.Text()
		tokens := strings.Fields(line)
		if len(tokens) == 0 {
			continue
		}

		switch strings.ToLower(tokens[0]) {
		case "uci":
			fmt.Println("id name GooseCore")
			fmt.Println("id author Goose")
			fmt.Println("option name Threads type spin default 1 min 1 max 256")
			fmt.Println("option name Hash type spin default 16 min 1 max 33554432")
			fmt.Println("option name MultiPV type spin default 1 min 1 max 500")
			fmt.Println("option name Skill Level type spin default 20 min 0 max 20")
			fmt.Println("option name UCI_LimitStrength type check default false")
			fmt.Println("option name UCI_Elo type spin default 1320 min 500 max 3000")
			fmt.Println("option name SyzygyProbeLimit type spin default 0 min 0 max 7")
			fmt.Println("option name SyzygyProbeDepth type spin default 1 min 1 max 100")
			fmt.Println("option name Syzygy50MoveRule type check default true")
			fmt.Println("uciok")
		case "isready":
			fmt.Println("readyok")
		case "ucinewgame":
			freshBoard := position.MustParseFEN(position.Startpos)
			board = &freshBoard
			gameHistory = nil
			e.NewGame()
		case "quit":
			return
		case "stop":
			e.Stop()
		case "ponderhit":
			e.Ponderhit()
		case "setoption":
			handleSetOption(tokens, &opts, e)
		case "position":
			handlePosition(tokens, &board, &gameHistory)
		case "go":
			handleGo(tokens, &board, gameHistory, e)
		default:
			fmt.Println("info string Unknown command:", line)
		}
	}
}

func handleSetOption(tokens []string, opts *engine.Options, e *engine.Engine) {
	// UCI setoption lines look like: setoption name <Name> value <Value>,
	// where <Name> may itself contain spaces (e.g. "Skill Level").
	nameIdx := -1
	valueIdx := -1
	for i, tok := range tokens {
		switch strings.ToLower(tok) {
		case "name":
			nameIdx = i + 1
		case "value":
			valueIdx = i
		}
	}
	if nameIdx == -1 || valueIdx == -1 || nameIdx >= valueIdx {
		fmt.Println("info string Malformed setoption command")
		return
	}
	name := strings.ToLower(strings.Join(tokens[nameIdx:valueIdx], " "))
	value := strings.Join(tokens[valueIdx+1:], " ")

	switch name {
	case "threads":
		opts.Threads = atoiDefault(value, opts.Threads)
	case "hash":
		opts.HashMB = atoiDefault(value, opts.HashMB)
	case "multipv":
		opts.MultiPV = atoiDefault(value, opts.MultiPV)
	case "skill level":
		opts.SkillLevel = atoiDefault(value, opts.SkillLevel)
	case "uci_limitstrength":
		opts.UCILimitStrength = strings.EqualFold(value, "true")
	case "uci_elo":
		opts.UCIElo = atoiDefault(value, opts.UCIElo)
	case "syzygyprobelimit":
		opts.SyzygyProbeLimit = atoiDefault(value, opts.SyzygyProbeLimit)
	case "syzygyprobedepth":
		opts.SyzygyProbeDepth = atoiDefault(value, opts.SyzygyProbeDepth)
	case "syzygy50moverule":
		opts.Syzygy50MoveRule = strings.EqualFold(value, "true")
	default:
		fmt.Println("info string Unknown option:", name)
		return
	}
	e.SetOptions(*opts)
}

func atoiDefault(s string, fallback int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return v
}

func handlePosition(tokens []string, board **position.Board, gameHistory *[]engine.Key) {
	if len(tokens) < 2 {
		fmt.Println("info string Malformed position command")
		return
	}

	idx := 1
	var b position.Board
	switch strings.ToLower(tokens[idx]) {
	case "startpos":
		b = position.MustParseFEN(position.Startpos)
		idx++
	case "fen":
		idx++
		start := idx
		for idx < len(tokens) && strings.ToLower(tokens[idx]) != "moves" {
			idx++
		}
		fen := strings.Join(tokens[start:idx], " ")
		parsed, err := position.ParseFEN(fen)
		if err != nil {
			fmt.Println("info string Invalid fen position:", err)
			return
		}
		b = *parsed
	default:
		fmt.Println("info string Invalid position subcommand")
		return
	}

	*gameHistory = (*gameHistory)[:0]
	if idx < len(tokens) && strings.ToLower(tokens[idx]) == "moves" {
		idx++
		for ; idx < len(tokens); idx++ {
			m, err := position.ParseUCIMove(&b, strings.ToLower(tokens[idx]))
			if err != nil {
				fmt.Println("info string Move", tokens[idx], "not found for current position")
				continue
			}
			*gameHistory = append(*gameHistory, b.ComputeZobrist())
			undo := b.Apply(m)
			_ = undo
		}
	}

	*board = &b
}

func handleGo(tokens []string, board **position.Board, gameHistory []engine.Key, e *engine.Engine) {
	limits := engine.Limits{}
	isPonder := false

	for i := 1; i < len(tokens); i++ {
		switch strings.ToLower(tokens[i]) {
		case "infinite":
			limits.Infinite = true
		case "ponder":
			isPonder = true
		case "wtime":
			i++
			if i < len(tokens) {
				limits.Time[position.White] = atoiDefault(tokens[i], 0)
			}
		case "btime":
			i++
			if i < len(tokens) {
				limits.Time[position.Black] = atoiDefault(tokens[i], 0)
			}
		case "winc":
			i++
			if i < len(tokens) {
				limits.Inc[position.White] = atoiDefault(tokens[i], 0)
			}
		case "binc":
			i++
			if i < len(tokens) {
				limits.Inc[position.Black] = atoiDefault(tokens[i], 0)
			}
		case "movestogo":
			i++
			if i < len(tokens) {
				limits.MovesToGo = atoiDefault(tokens[i], 0)
			}
		case "depth":
			i++
			if i < len(tokens) {
				limits.Depth = atoiDefault(tokens[i], 0)
			}
		case "nodes":
			i++
			if i < len(tokens) {
				limits.Nodes = uint64(atoiDefault(tokens[i], 0))
			}
		case "movetime":
			i++
			if i < len(tokens) {
				limits.MoveTime = atoiDefault(tokens[i], 0)
			}
		case "mate":
			i++
			if i < len(tokens) {
				limits.Mate = atoiDefault(tokens[i], 0)
			}
		}
	}

	e.SetGameHistory(gameHistory)
	if isPonder {
		e.StartPondering()
	}

	gamePly := (*board).FullmoveNumber() * 2
	result := e.StartSearch(*board, limits, gamePly, func(ev engine.InfoEvent) {
		printInfo(ev)
	})

	if result.BestMove.IsNone() {
		fmt.Println("bestmove (none)")
		return
	}
	fmt.Println("bestmove", result.BestMove.String())
}

func printInfo(ev engine.InfoEvent) {
	var scoreStr string
	if ev.IsMate {
		scoreStr = fmt.Sprintf("mate %d", ev.MateIn)
	} else {
		scoreStr = fmt.Sprintf("cp %d", ev.Score)
	}

	pv := make([]string, len(ev.PV))
	for i, m := range ev.PV {
		pv[i] = m.String()
	}

	fmt.Printf("info depth %d seldepth %d multipv %d score %s wdl %d %d %d nodes %d hashfull %d time %d pv %s\n",
		ev.Depth, ev.SelDepth, ev.MultiPV, scoreStr, ev.WDL[0], ev.WDL[1], ev.WDL[2],
		ev.Nodes, ev.Hashfull, ev.TimeMS, strings.Join(pv, " "))
}
