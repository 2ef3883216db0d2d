package sinks

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/JakeFAU/oja-awards-crawler/internal/progress"
)

func TestMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		evt  progress.Event
		want string
	}{
		{"fetch", progress.Event{Stage: progress.StageFetchFailed, URL: "https://x/e/1"}, "Catch an exception - url=https://x/e/1"},
		{"listing", progress.Event{Stage: progress.StageListingFailed, Year: 2018}, "Catch an exception - year=2018"},
		{"parse", progress.Event{Stage: progress.StageParseFailed, Year: 2018, URL: "https://x/e/2"}, "Catch an exception - year=2018 & url=https://x/e/2"},
		{"year", progress.Event{Stage: progress.StageYearCrawled, Year: 2017}, "PAGES IN 2017 CRAWLED"},
		{"upload", progress.Event{Stage: progress.StageUploaded, Note: "bucket", URL: "oja/general-2017.json"}, `DATA UPLOADED TO "bucket/oja/general-2017.json"`},
		{"run", progress.Event{Stage: progress.StageRunDone}, "ALL PAGES CRAWLED"},
		{"notify", progress.Event{Stage: progress.StageNotified, Note: "ok"}, "Slack notified - ok"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := Message(tt.evt)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := Message(progress.Event{Stage: progress.StageEntryParsed})
	assert.False(t, ok)
}

func TestLogSinkLevels(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	sink := NewLogSink(zap.New(core))

	err := sink.Consume(context.Background(), []progress.Event{
		{Stage: progress.StageFetchFailed, URL: "https://x/e/1", Err: errors.New("boom")},
		{Stage: progress.StageEntryParsed, Year: 2020, URL: "https://x/e/2"},
		{Stage: progress.StageYearCrawled, Year: 2020},
	})
	require.NoError(t, err)

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "Catch an exception - url=https://x/e/1", entries[0].Message)
	assert.Equal(t, "boom", entries[0].ContextMap()["error"])
	assert.Equal(t, zapcore.DebugLevel, entries[1].Level)
	assert.Equal(t, "PAGES IN 2020 CRAWLED", entries[1].Message)
	require.NoError(t, sink.Close(context.Background()))
}
