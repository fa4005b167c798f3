package service

import (
	"encoding/json"
	"log/slog"

	"github.com/cidlogsrv/cidlogsrv/internal/logstore"
	"github.com/nats-io/nats.go"
)

// Subject trees the facade subscribes to, per §4.F.
const (
	SubjectLogOne         = "cidlog.data.log_one"
	SubjectLogMany        = "cidlog.data.log_many"
	SubjectQueryByCount   = "cidlog.data.query_by_count"
	SubjectQueryByMinutes = "cidlog.data.query_by_minutes"
	SubjectQueryFiltered  = "cidlog.data.query_filtered"
	SubjectLiveEvents     = "cidlog.data.live_events"
	SubjectRemoveAll      = "cidlog.admin.remove_all"
	SubjectDebugDump      = "cidlog.admin.debug_dump"
)

// Facade binds a [logstore.Store] to a NATS connection's request/reply
// subjects.
type Facade struct {
	store *logstore.Store
	nc    *nats.Conn
	log   *slog.Logger
	subs  []*nats.Subscription
}

// NewFacade wires store onto nc. Call [Facade.Start] to begin serving
// requests.
func NewFacade(store *logstore.Store, nc *nats.Conn, log *slog.Logger) *Facade {
	if log == nil {
		log = slog.Default()
	}

	return &Facade{store: store, nc: nc, log: log}
}

// Start subscribes every facade subject. Subscriptions are queue-grouped
// under "cidlogsrv" so multiple facade processes can share load without
// duplicate delivery.
func (f *Facade) Start() error {
	handlers := map[string]nats.MsgHandler{
		SubjectLogOne:         f.handleLogOne,
		SubjectLogMany:        f.handleLogMany,
		SubjectQueryByCount:   f.handleQueryByCount,
		SubjectQueryByMinutes: f.handleQueryByMinutes,
		SubjectQueryFiltered:  f.handleQueryFiltered,
		SubjectLiveEvents:     f.handleLiveEvents,
		SubjectRemoveAll:      f.handleRemoveAll,
		SubjectDebugDump:      f.handleDebugDump,
	}

	for subject, handler := range handlers {
		sub, err := f.nc.QueueSubscribe(subject, "cidlogsrv", handler)
		if err != nil {
			f.Stop()
			return err
		}

		f.subs = append(f.subs, sub)
	}

	return nil
}

// Stop unsubscribes every subject the facade registered.
func (f *Facade) Stop() {
	for _, sub := range f.subs {
		_ = sub.Unsubscribe()
	}

	f.subs = nil
}

func (f *Facade) respond(msg *nats.Msg, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		f.log.Error("logsrv: marshaling response", "error", err)
		return
	}

	if err := msg.Respond(data); err != nil {
		f.log.Warn("logsrv: responding to request", "subject", msg.Subject, "error", err)
	}
}

func (f *Facade) handleLogOne(msg *nats.Msg) {
	var req logOneRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		f.respond(msg, statusResponse{Code: CodeInvalidArgument, Message: err.Error()})
		return
	}

	err := f.store.LogOne(fromDTO(req.Event))
	f.respond(msg, statusResponse{Code: codeFor(err), Message: errMessage(err)})
}

func (f *Facade) handleLogMany(msg *nats.Msg) {
	var req logManyRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		f.respond(msg, logManyResponse{Code: CodeInvalidArgument, Message: err.Error()})
		return
	}

	evs := make([]logstore.LogEvent, len(req.Events))
	for i, d := range req.Events {
		evs[i] = fromDTO(d)
	}

	written, err := f.store.LogMany(evs)
	f.respond(msg, logManyResponse{Code: codeFor(err), Message: errMessage(err), Written: written})
}

func (f *Facade) handleQueryByCount(msg *nats.Msg) {
	var req queryByCountRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		f.respond(msg, queryResponse{Code: CodeInvalidArgument, Message: err.Error()})
		return
	}

	events, err := f.store.QueryByCount(req.MaxReturn)
	f.respond(msg, buildQueryResponse(events, err))
}

func (f *Facade) handleQueryByMinutes(msg *nats.Msg) {
	var req queryByMinutesRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		f.respond(msg, queryResponse{Code: CodeInvalidArgument, Message: err.Error()})
		return
	}

	events, err := f.store.QueryByMinutes(req.Minutes)
	f.respond(msg, buildQueryResponse(events, err))
}

func (f *Facade) handleQueryFiltered(msg *nats.Msg) {
	var req queryFilteredRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		f.respond(msg, queryResponse{Code: CodeInvalidArgument, Message: err.Error()})
		return
	}

	events, err := f.store.QueryFiltered(logstore.QueryFilter{
		Max:             req.Max,
		SeverityMask:    req.SeverityMask,
		ClassMask:       req.ClassMask,
		HostPattern:     req.HostPattern,
		ProcessPattern:  req.ProcessPattern,
		FacilityPattern: req.FacilityPattern,
		ThreadPattern:   req.ThreadPattern,
	})
	f.respond(msg, buildQueryResponse(events, err))
}

func (f *Facade) handleLiveEvents(msg *nats.Msg) {
	var req liveEventsRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		f.respond(msg, queryResponse{Code: CodeInvalidArgument, Message: err.Error()})
		return
	}

	events, newWatermark := f.store.GetLiveEvents(req.Watermark)
	resp := buildQueryResponse(events, nil)
	resp.NewWatermark = newWatermark
	f.respond(msg, resp)
}

func (f *Facade) handleRemoveAll(msg *nats.Msg) {
	err := f.store.RemoveAll()
	f.respond(msg, statusResponse{Code: codeFor(err), Message: errMessage(err)})
}

func (f *Facade) handleDebugDump(msg *nats.Msg) {
	dump := f.store.Dump()
	f.respond(msg, debugDumpResponse{
		Code:            CodeOK,
		KeysUsed:        dump.KeysUsed,
		FreesUsed:       dump.FreesUsed,
		LastSeq:         dump.LastSeq,
		FileSizeBytes:   dump.FileSizeBytes,
		LiveTailLength:  dump.LiveTailLength,
		OversizeDropped: dump.OversizeDropped,
	})
}

func buildQueryResponse(events []logstore.LogEvent, err error) queryResponse {
	resp := queryResponse{Code: codeFor(err), Message: errMessage(err)}

	if err != nil {
		return resp
	}

	resp.Events = make([]eventDTO, len(events))
	for i, ev := range events {
		resp.Events[i] = toDTO(ev)
	}

	return resp
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}

	return err.Error()
}
