package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"cellforge/internal/compile"
	"cellforge/internal/notify"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve cell definitions over HTTP and broadcast recalculations over WebSocket",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "address to listen on")
}

type defineRequest struct {
	Cell    string `json:"cell"`
	Formula string `json:"formula"`
}

// eventLogEntry is one completed recalculation, kept only for the /events
// endpoint and the stdout log line; it is never consulted by DefineCell.
type eventLogEntry struct {
	Cell  string
	Value string
	At    time.Time
}

// eventLog is the serve subcommand's own recalculation history, separate
// from notify.Hub's live WebSocket broadcast — it exists so the CLI can
// render each past event's age with humanize.Time instead of only ever
// showing the instant of recalculation.
type eventLog struct {
	mu      sync.Mutex
	entries []eventLogEntry
}

func (l *eventLog) record(cell, value string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, eventLogEntry{Cell: cell, Value: value, At: time.Now()})
	if len(l.entries) > 100 {
		l.entries = l.entries[len(l.entries)-100:]
	}
}

func (l *eventLog) writeTo(w http.ResponseWriter) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		fmt.Fprintf(w, "%s = %s, recalculated %s\n", e.Cell, e.Value, humanize.Time(e.At))
	}
}

func runServe(_ *cobra.Command, _ []string) error {
	d := compile.New()
	if err := maybeLoadSQL(d.Table); err != nil {
		return err
	}
	hub := notify.NewHub()
	log := &eventLog{}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.ServeHTTP)
	mux.HandleFunc("/events", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		log.writeTo(w)
	})
	mux.HandleFunc("/define", func(w http.ResponseWriter, r *http.Request) {
		var req defineRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		result := d.DefineCell(req.Cell, req.Formula, 0)
		hub.Broadcast(result.Key, result.Value.AsNumber())

		rendered := formatValue(result.Value)
		log.record(result.Key, rendered)
		fmt.Printf("%s = %s, recalculated %s\n", result.Key, rendered, humanize.Time(time.Now()))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
	})

	fmt.Printf("cellforge serve: listening on %s (%d subscribers)\n", serveAddr, hub.ClientCount())
	return http.ListenAndServe(serveAddr, mux)
}
