package service

import "github.com/cidlogsrv/cidlogsrv/internal/logstore"

// request/response envelopes. Every subject handler decodes one request
// type and encodes one response type as JSON; none of the wire formats
// depend on each other beyond sharing [Code] and [eventDTO].

type eventDTO struct {
	LoggedAt        int64  `json:"logged_at"`
	Host            string `json:"host"`
	Process         string `json:"process"`
	Facility        string `json:"facility"`
	Thread          string `json:"thread"`
	File            string `json:"file"`
	Message         string `json:"message"`
	AuxText         string `json:"aux_text"`
	Line            uint32 `json:"line"`
	Severity        uint8  `json:"severity"`
	ErrClass        uint8  `json:"err_class"`
	ErrorCode       uint32 `json:"error_code"`
	KernelErrorCode uint32 `json:"kernel_error_code"`
	HostErrorCode   uint32 `json:"host_error_code"`
	Seq             uint32 `json:"seq"`
}

func toDTO(ev logstore.LogEvent) eventDTO {
	return eventDTO{
		LoggedAt:        ev.LoggedAt,
		Host:            ev.Host,
		Process:         ev.Process,
		Facility:        ev.Facility,
		Thread:          ev.Thread,
		File:            ev.File,
		Message:         ev.Message,
		AuxText:         ev.AuxText,
		Line:            ev.Line,
		Severity:        uint8(ev.Severity),
		ErrClass:        uint8(ev.ErrClass),
		ErrorCode:       ev.ErrorCode,
		KernelErrorCode: ev.KernelErrorCode,
		HostErrorCode:   ev.HostErrorCode,
		Seq:             ev.Seq,
	}
}

func fromDTO(d eventDTO) logstore.LogEvent {
	return logstore.LogEvent{
		LoggedAt:        d.LoggedAt,
		Host:            d.Host,
		Process:         d.Process,
		Facility:        d.Facility,
		Thread:          d.Thread,
		File:            d.File,
		Message:         d.Message,
		AuxText:         d.AuxText,
		Line:            d.Line,
		Severity:        logstore.Severity(d.Severity),
		ErrClass:        logstore.ErrClass(d.ErrClass),
		ErrorCode:       d.ErrorCode,
		KernelErrorCode: d.KernelErrorCode,
		HostErrorCode:   d.HostErrorCode,
	}
}

type logOneRequest struct {
	Event eventDTO `json:"event"`
}

type logManyRequest struct {
	Events []eventDTO `json:"events"`
}

type logManyResponse struct {
	Code    Code   `json:"code"`
	Message string `json:"message,omitempty"`
	Written int    `json:"written"`
}

type queryByCountRequest struct {
	MaxReturn int `json:"max_return"`
}

type queryByMinutesRequest struct {
	Minutes int `json:"minutes"`
}

type queryFilteredRequest struct {
	Max             int    `json:"max"`
	SeverityMask    uint64 `json:"severity_mask"`
	ClassMask       uint64 `json:"class_mask"`
	HostPattern     string `json:"host_pattern"`
	ProcessPattern  string `json:"process_pattern"`
	FacilityPattern string `json:"facility_pattern"`
	ThreadPattern   string `json:"thread_pattern"`
}

type queryResponse struct {
	Code         Code       `json:"code"`
	Message      string     `json:"message,omitempty"`
	Events       []eventDTO `json:"events,omitempty"`
	NewWatermark uint32     `json:"new_watermark,omitempty"`
}

type liveEventsRequest struct {
	Watermark uint32 `json:"watermark"`
}

type statusResponse struct {
	Code    Code   `json:"code"`
	Message string `json:"message,omitempty"`
}

type debugDumpResponse struct {
	Code            Code    `json:"code"`
	Message         string  `json:"message,omitempty"`
	KeysUsed        int     `json:"keys_used"`
	FreesUsed       int     `json:"frees_used"`
	LastSeq         uint32  `json:"last_seq"`
	FileSizeBytes   int64   `json:"file_size_bytes"`
	LiveTailLength  int     `json:"live_tail_length"`
	OversizeDropped float64 `json:"oversize_dropped"`
}
