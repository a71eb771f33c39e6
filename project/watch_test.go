package project

import (
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
)

func TestRelevantEvent(t *testing.T) {
	b := NewBuilder()
	dir := filepath.Join("work", "LR2052-100C")
	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{
			name:  "data file written",
			event: fsnotify.Event{Name: filepath.Join(dir, "parameters.json"), Op: fsnotify.Write},
			want:  true,
		},
		{
			name:  "model added",
			event: fsnotify.Event{Name: filepath.Join(dir, "LR2052-111C.3mf"), Op: fsnotify.Create},
			want:  true,
		},
		{
			name:  "render removed",
			event: fsnotify.Event{Name: filepath.Join(dir, "LR2052-111C.png"), Op: fsnotify.Remove},
			want:  true,
		},
		{
			name:  "chmod only",
			event: fsnotify.Event{Name: filepath.Join(dir, "parameters.json"), Op: fsnotify.Chmod},
			want:  false,
		},
		{
			name:  "intermediate output",
			event: fsnotify.Event{Name: filepath.Join(dir, "tmp", "catalog.tex"), Op: fsnotify.Write},
			want:  false,
		},
		{
			name:  "typeset document",
			event: fsnotify.Event{Name: filepath.Join(dir, "LR2052-100C-catalog.pdf"), Op: fsnotify.Create},
			want:  false,
		},
		{
			name:  "manifest written",
			event: fsnotify.Event{Name: filepath.Join(dir, "manifest.json"), Op: fsnotify.Write},
			want:  false,
		},
		{
			name:  "hidden file",
			event: fsnotify.Event{Name: filepath.Join(dir, ".catalog.swp"), Op: fsnotify.Write},
			want:  false,
		},
		{
			name:  "outside the project",
			event: fsnotify.Event{Name: filepath.Join("work", "other", "parameters.json"), Op: fsnotify.Write},
			want:  false,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := b.relevantEvent(dir, tc.event); got != tc.want {
				t.Fatalf("relevantEvent(%s %s) = %v, want %v", tc.event.Op, tc.event.Name, got, tc.want)
			}
		})
	}
}
