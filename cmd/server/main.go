package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"runtime/debug"
	"strconv"
	"strings"
	"sync"

	. "github.com/cricklet/duckchess/internal/helpers"
	"github.com/cricklet/duckchess/internal/search"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/profile"
)

// socketWriter serializes writes to a websocket; the engine process logs from its own
// goroutine while the handler sends updates.
type socketWriter struct {
	mutex sync.Mutex
	conn  *websocket.Conn
}

func (w *socketWriter) WriteJSON(v any) Error {
	bytes, err := json.Marshal(v)
	if err != nil {
		return Wrap(err)
	}

	w.mutex.Lock()
	defer w.mutex.Unlock()
	return Wrap(w.conn.WriteMessage(websocket.TextMessage, bytes))
}

func newRouter(options search.SearcherOptions) *mux.Router {
	var upgrader = websocket.Upgrader{}

	var ws = func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if !IsNil(err) {
			log.Println("upgrade: ", err)
			return
		}
		defer c.Close()

		writer := &socketWriter{conn: c}

		var log = func(message string) {
			log.Print("logging: ", message)
			err := writer.WriteJSON([]string{message})
			if !IsNil(err) {
				fmt.Fprintln(os.Stderr, fmt.Sprint("logging: websocket: ", err))
			}
		}

		logger := &LogForwarding{
			writeCallback: func(message string) {
				log(fmt.Sprintf("server: %v", message))
			},
		}
		engineLogger := &LogForwarding{
			writeCallback: func(message string) {
				log(fmt.Sprintf("duckgo: %v", message))
			},
		}

		s, setupErr := newSession(logger, engineLogger, options, func(update UpdateToWeb) {
			err := writer.WriteJSON(update)
			if !IsNil(err) {
				fmt.Fprintln(os.Stderr, fmt.Sprint("update: websocket: ", err))
			}
		})
		if !IsNil(setupErr) {
			logger.Println("setup: ", setupErr)
			return
		}

		for {
			_, message, err := c.ReadMessage()
			if !IsNil(err) {
				logger.Printf("Error: %v", err)
				break
			}
			s.handleMessageFromWeb(message)
		}
	}

	var index = func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, RootDir()+"/static/index.html")
	}

	router := mux.NewRouter()
	router.HandleFunc("/ws", ws)
	router.PathPrefix("/static").Handler(
		http.StripPrefix("/static", http.FileServer(http.Dir(RootDir()+"/static"))))
	router.PathPrefix("/{white}/{black}").HandlerFunc(index)
	router.HandleFunc("/", index)
	return router
}

// usage: server [port=8002] [profile] [search options...]
func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintln(os.Stderr, fmt.Sprint(r))
			fmt.Fprintln(os.Stderr, string(debug.Stack()))
		}
	}()

	args := os.Args[1:]

	if Contains(args, "profile") {
		p := profile.Start(profile.ProfilePath(RootDir() + "/data/CmdServerMain"))
		defer p.Stop()
	}

	port := 8002
	searchArgs := []string{}
	for _, arg := range args {
		if value, ok := strings.CutPrefix(arg, "port="); ok {
			parsed, err := strconv.Atoi(value)
			if !IsNil(err) {
				fmt.Fprintln(os.Stderr, "invalid port:", value)
				os.Exit(1)
			}
			port = parsed
		} else if arg != "profile" {
			searchArgs = append(searchArgs, arg)
		}
	}

	options, err := search.SearcherOptionsFromArgs(searchArgs...)
	if !IsNil(err) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log.Println("serving at", port, "with", options)

	err = Wrap(http.ListenAndServe(fmt.Sprintf(":%v", port), newRouter(options)))
	if !IsNil(err) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
