// Command cidlogctl is an interactive admin client for a running
// cidlogsrv's NATS service facade: query recent events, tail live
// events, clear the store, and dump internal diagnostics.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/peterh/liner"
)

func main() {
	natsURL := flag.String("nats-url", "nats://127.0.0.1:4222", "NATS server URL")
	flag.Parse()

	nc, err := nats.Connect(*natsURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cidlogctl: connecting to %s: %v\n", *natsURL, err)
		os.Exit(1)
	}
	defer nc.Close()

	repl := &REPL{nc: nc}
	if err := repl.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "cidlogctl: %v\n", err)
		os.Exit(1)
	}
}

// REPL is the interactive command loop.
type REPL struct {
	nc    *nats.Conn
	liner *liner.State
}

func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".cidlogctl_history")
}

// Run starts the REPL loop.
func (r *REPL) Run() error {
	r.liner = liner.NewLiner()
	defer r.liner.Close()

	r.liner.SetCtrlCAborts(true)
	r.liner.SetCompleter(r.completer)

	if f, err := os.Open(historyFile()); err == nil {
		r.liner.ReadHistory(f)
		f.Close()
	}

	fmt.Println("cidlogctl - cidlogsrv admin CLI")
	fmt.Println("Type 'help' for available commands.")
	fmt.Println()

	for {
		line, err := r.liner.Prompt("cidlogctl> ")
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				fmt.Println("\nBye!")
				break
			}

			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		r.liner.AppendHistory(line)

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "exit", "quit", "q":
			fmt.Println("Bye!")
			r.saveHistory()

			return nil

		case "help", "?":
			r.printHelp()

		case "query", "count":
			r.cmdQueryByCount(args)

		case "minutes":
			r.cmdQueryByMinutes(args)

		case "filter":
			r.cmdQueryFiltered(args)

		case "live":
			r.cmdLiveEvents(args)

		case "removeall", "clear":
			r.cmdRemoveAll()

		case "dump", "info":
			r.cmdDebugDump()

		default:
			fmt.Printf("Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}

	r.saveHistory()

	return nil
}

func (r *REPL) saveHistory() {
	if path := historyFile(); path != "" {
		if f, err := os.Create(path); err == nil {
			r.liner.WriteHistory(f)
			f.Close()
		}
	}
}

func (r *REPL) completer(line string) []string {
	commands := []string{
		"query", "count", "minutes", "filter",
		"live", "removeall", "clear", "dump", "info",
		"help", "exit", "quit",
	}

	var out []string

	for _, c := range commands {
		if strings.HasPrefix(c, line) {
			out = append(out, c)
		}
	}

	return out
}

func (r *REPL) printHelp() {
	fmt.Println(`Commands:
  query [n]              show the n most recent events (default 20)
  minutes <n>             show events from the last n minutes
  filter <host_re> [proc_re] [fac_re] [thread_re]
                          show events whose host/process/facility/thread match regex
  live <watermark>        show events from watermark onward (0 for all retained)
  removeall               clear the store
  dump                    show internal diagnostics
  help                    show this text
  exit                    quit`)
}

const requestTimeout = 5 * time.Second

func (r *REPL) request(subject string, req, resp any) error {
	data, err := json.Marshal(req)
	if err != nil {
		return err
	}

	msg, err := r.nc.Request(subject, data, requestTimeout)
	if err != nil {
		return err
	}

	return json.Unmarshal(msg.Data, resp)
}

type ctlEvent struct {
	LoggedAt int64  `json:"logged_at"`
	Host     string `json:"host"`
	Message  string `json:"message"`
	Severity uint8  `json:"severity"`
	Seq      uint32 `json:"seq"`
}

type ctlQueryResponse struct {
	Code         string     `json:"code"`
	Message      string     `json:"message"`
	Events       []ctlEvent `json:"events"`
	NewWatermark uint32     `json:"new_watermark"`
}

func (r *REPL) cmdQueryByCount(args []string) {
	n := 20

	if len(args) > 0 {
		if v, err := strconv.Atoi(args[0]); err == nil {
			n = v
		}
	}

	var resp ctlQueryResponse
	if err := r.request("cidlog.data.query_by_count", map[string]int{"max_return": n}, &resp); err != nil {
		fmt.Println("error:", err)
		return
	}

	printEvents(resp)
}

func (r *REPL) cmdQueryByMinutes(args []string) {
	if len(args) == 0 {
		fmt.Println("usage: minutes <n>")
		return
	}

	n, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Println("invalid minutes:", args[0])
		return
	}

	var resp ctlQueryResponse
	if err := r.request("cidlog.data.query_by_minutes", map[string]int{"minutes": n}, &resp); err != nil {
		fmt.Println("error:", err)
		return
	}

	printEvents(resp)
}

func (r *REPL) cmdQueryFiltered(args []string) {
	if len(args) == 0 {
		fmt.Println("usage: filter <host_re> [proc_re] [fac_re] [thread_re]")
		return
	}

	req := map[string]string{"host_pattern": args[0]}

	for i, key := range []string{"process_pattern", "facility_pattern", "thread_pattern"} {
		if i+1 < len(args) {
			req[key] = args[i+1]
		}
	}

	var resp ctlQueryResponse
	if err := r.request("cidlog.data.query_filtered", req, &resp); err != nil {
		fmt.Println("error:", err)
		return
	}

	printEvents(resp)
}

func (r *REPL) cmdLiveEvents(args []string) {
	var watermark uint32

	if len(args) > 0 {
		if v, err := strconv.ParseUint(args[0], 10, 32); err == nil {
			watermark = uint32(v)
		}
	}

	var resp ctlQueryResponse
	req := map[string]uint32{"watermark": watermark}

	if err := r.request("cidlog.data.live_events", req, &resp); err != nil {
		fmt.Println("error:", err)
		return
	}

	printEvents(resp)
	fmt.Printf("next watermark: %d\n", resp.NewWatermark)
}

func (r *REPL) cmdRemoveAll() {
	var resp struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}

	if err := r.request("cidlog.admin.remove_all", struct{}{}, &resp); err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(resp.Code)
}

func (r *REPL) cmdDebugDump() {
	var resp struct {
		Code           string `json:"code"`
		KeysUsed       int    `json:"keys_used"`
		FreesUsed      int    `json:"frees_used"`
		LastSeq        uint32 `json:"last_seq"`
		FileSizeBytes  int64  `json:"file_size_bytes"`
		LiveTailLength int    `json:"live_tail_length"`
	}

	if err := r.request("cidlog.admin.debug_dump", struct{}{}, &resp); err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Printf("keys_used=%d frees_used=%d last_seq=%d file_size=%d live_tail=%d\n",
		resp.KeysUsed, resp.FreesUsed, resp.LastSeq, resp.FileSizeBytes, resp.LiveTailLength)
}

func printEvents(resp ctlQueryResponse) {
	if resp.Code != "" && resp.Code != "ok" {
		fmt.Println("error:", resp.Message)
		return
	}

	for _, ev := range resp.Events {
		fmt.Printf("[seq=%d sev=%d] %s\n", ev.Seq, ev.Severity, ev.Message)
	}
}
