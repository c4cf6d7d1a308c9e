package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/ganot/pmdash/internal/domain/stats"
	"github.com/stretchr/testify/require"
)

func TestPrintTable_AlignsColumns(t *testing.T) {
	var buf bytes.Buffer
	err := printTable(&buf, []string{"ID", "NAME"}, func(row func(...any)) {
		row("p1", "Alpha")
		row("p10", "Beta")
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, strings.Index(lines[1], "Alpha"), strings.Index(lines[2], "Beta"))
}

func TestPrintSlices(t *testing.T) {
	var buf bytes.Buffer
	printSlices(&buf, "TEAM", []stats.Slice{{Label: "Eng", Value: 2}})
	require.Contains(t, buf.String(), "TEAM")
	require.Contains(t, buf.String(), "Eng")
	require.True(t, strings.HasSuffix(buf.String(), "\n\n"))
}

func TestSince(t *testing.T) {
	require.Equal(t, "never", since(time.Time{}))
	require.Equal(t, "1 hour ago", since(time.Now().Add(-time.Hour-time.Second)))
}
