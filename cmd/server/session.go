package main

import (
	"encoding/json"
	"time"

	"github.com/cricklet/duckchess/internal/duckgo"
	. "github.com/cricklet/duckchess/internal/game"
	. "github.com/cricklet/duckchess/internal/helpers"
	"github.com/cricklet/duckchess/internal/search"
	"github.com/cricklet/duckchess/internal/selfplay"
)

// session is one browser connection: its own game and the player type per colour.
type session struct {
	logger Logger
	runner *duckgo.DuckGoRunner
	random *selfplay.RandomPlayer

	playerTypes [2]PlayerType
	ready       bool

	send func(update UpdateToWeb)
}

func newSession(logger Logger, engineLogger Logger, options search.SearcherOptions, send func(UpdateToWeb)) (*session, Error) {
	s := &session{
		logger:      logger,
		runner:      duckgo.NewDuckGoRunner(engineLogger, options),
		random:      selfplay.NewRandomPlayer(time.Now().UnixNano()),
		playerTypes: [2]PlayerType{User, User},
		send:        send,
	}
	err := s.runner.SetupPosition("startpos", nil)
	return s, err
}

func (s *session) finalizeUpdate(update UpdateToWeb) {
	if s.runner.IsNew() {
		s.logger.Println("no position to send")
		return
	}

	update.FenString = s.runner.FenString()
	update.Player = s.runner.Player().String()
	update.Phase = s.runner.Phase().String()
	update.Status = s.runner.Status()
	update.History = s.runner.NotationHistory()
	if lastMove := s.runner.LastMove(); lastMove.HasValue() {
		update.LastMove = lastMove.Value().String()
	}

	s.logger.Println("sending", update)
	s.send(update)
}

// performMove lets a non-user player finish its turn. It returns false when it's a
// user's turn or nothing could be played.
func (s *session) performMove() bool {
	if !s.ready || s.runner.IsNew() || s.runner.Game().GameOver {
		return false
	}

	switch s.playerTypes[s.runner.Player()] {
	case DuckGo:
		turn, score, err := s.runner.Search()
		if !IsNil(err) {
			s.logger.Println("search: ", err)
			return false
		}
		if turn.IsEmpty() {
			s.logger.Println("no move found")
			return false
		}

		s.logger.Println("search: ", turn.Value(), search.ScoreString(score))
		err = s.runner.PerformTurn(turn.Value())
		if !IsNil(err) {
			s.logger.Println("perform: ", turn.Value(), err)
			return false
		}
	case Random:
		player := s.runner.Player()
		for !s.runner.Game().GameOver && s.runner.Player() == player {
			move := s.random.ChooseMove(s.runner.Game())
			if move.IsEmpty() {
				s.logger.Println("no move found")
				return false
			}
			err := s.runner.PerformMoveFromString(move.Value().String())
			if !IsNil(err) {
				s.logger.Println("perform: ", move.Value(), err)
				return false
			}
		}
	default:
		return false
	}

	return true
}

func (s *session) handleMessageFromWeb(bytes []byte) {
	var message MessageFromWeb
	err := json.Unmarshal(bytes, &message)
	if !IsNil(err) {
		s.logger.Println("handleMessageFromWeb: json unmarshal: ", err)
		return
	}
	s.logger.Println("received", message)

	var update UpdateToWeb
	shouldUpdate := false

	if message.NewFen != nil {
		err := s.runner.SetupPosition(*message.NewFen, nil)
		if !IsNil(err) {
			s.logger.Println("setup: ", err)
			err = s.runner.SetupPosition("startpos", nil)
			if !IsNil(err) {
				s.logger.Println("setup: ", err)
			}
		}
		shouldUpdate = true
	} else if message.WhitePlayer != nil {
		s.playerTypes[White] = PlayerTypeFromString(*message.WhitePlayer)
	} else if message.BlackPlayer != nil {
		s.playerTypes[Black] = PlayerTypeFromString(*message.BlackPlayer)
	} else if message.Selection != nil {
		if *message.Selection != "" {
			update.Selection = *message.Selection
			result, err := s.runner.MovesForSelection(*message.Selection)
			if !IsNil(err) {
				s.logger.Println("moves for: ", *message.Selection, err)
			}
			update.PossibleMoves = result
		}
		shouldUpdate = true
	} else if message.Move != nil {
		err := s.runner.PerformMoveFromString(*message.Move)
		if !IsNil(err) {
			s.logger.Println("perform: ", *message.Move, err)
		}
		shouldUpdate = true
	} else if message.Rewind != nil {
		err := s.runner.Rewind(*message.Rewind)
		if !IsNil(err) {
			s.logger.Println("rewind: ", *message.Rewind, err)
		}
		shouldUpdate = true
	} else if message.Ready != nil {
		if !s.ready {
			s.ready = *message.Ready
			shouldUpdate = true
		}
	}

	if shouldUpdate {
		s.finalizeUpdate(update)
	}
	for s.performMove() {
		s.finalizeUpdate(UpdateToWeb{})
	}
}
