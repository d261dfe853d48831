package inspect

import (
	"bufio"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/lloyds-sim/internal/events"
	"github.com/aristath/lloyds-sim/internal/ids"
)

func sampleLog() *events.Log {
	var log events.Log
	log.Push(0, events.SimulationStart{WarmupYears: 1, AnalysisYears: 5})
	log.Push(3, events.PolicyBound{PolicyId: 1, InsurerId: 1, InsuredId: 1})
	log.Push(10, events.ClaimSettled{PolicyId: 1, InsurerId: 1, Amount: 500})
	log.Push(20, events.InsurerInsolvent{InsurerId: ids.InsurerId(1)})
	return &log
}

func TestSummarize_CountsEachTrackedKind(t *testing.T) {
	s := summarize(sampleLog())
	assert.Equal(t, 4, s.Entries)
	assert.Equal(t, 1, s.PolicyBound)
	assert.Equal(t, 1, s.ClaimSettled)
	assert.Equal(t, 1, s.Insolvencies)
	assert.Equal(t, 0, s.DynamicEntries)
}

func TestServer_SummaryEndpoint(t *testing.T) {
	srv := New(zerolog.Nop(), sampleLog(), 0)
	req := httptest.NewRequest(http.MethodGet, "/summary", nil)
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var s Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	assert.Equal(t, 4, s.Entries)
}

func TestServer_EventsEndpointStreamsNDJSON(t *testing.T) {
	srv := New(zerolog.Nop(), sampleLog(), 0)
	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	scanner := bufio.NewScanner(rec.Body)
	var lines int
	for scanner.Scan() {
		var entry events.Entry
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		lines++
	}
	assert.Equal(t, 4, lines)
}
