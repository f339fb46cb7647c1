package webhost

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/grovetools/scaffolder/errors"
	"github.com/grovetools/scaffolder/pkg/pathops"
	"github.com/grovetools/scaffolder/pkg/vtree"
)

func (h *Host) statFile(ctx context.Context, path string) (pathops.FileStat, error) {
	return pathops.Stat(ctx, path)
}

// entryFor resolves the path query parameter. An absent parameter selects the
// top level.
func (h *Host) entryFor(r *http.Request) (*vtree.Entry, error) {
	path := r.URL.Query().Get("path")
	if path == "" {
		return nil, nil
	}
	if !filepath.IsAbs(path) {
		return nil, errors.ValidationFailed(fmt.Sprintf("path must be absolute: %s", path))
	}
	st, err := h.opts.Tree.Stat(r.Context(), path)
	if err != nil {
		return nil, err
	}
	return &vtree.Entry{Path: filepath.Clean(path), Kind: st.Kind}, nil
}

// handleTree lists the display items under ?path=, or the top level.
func (h *Host) handleTree(w http.ResponseWriter, r *http.Request) {
	if h.opts.Tree == nil {
		http.Error(w, "tree not configured", http.StatusServiceUnavailable)
		return
	}
	entry, err := h.entryFor(r)
	if err != nil {
		writeError(w, err)
		return
	}
	children, err := h.opts.Tree.GetChildren(r.Context(), entry)
	if err != nil {
		writeError(w, err)
		return
	}
	items := make([]vtree.Item, 0, len(children))
	for _, c := range children {
		items = append(items, h.opts.Tree.TreeItem(c))
	}
	writeJSON(w, http.StatusOK, items)
}

// handleTreeItem describes the single entry at ?path=.
func (h *Host) handleTreeItem(w http.ResponseWriter, r *http.Request) {
	if h.opts.Tree == nil {
		http.Error(w, "tree not configured", http.StatusServiceUnavailable)
		return
	}
	entry, err := h.entryFor(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if entry == nil {
		writeError(w, errors.ValidationFailed("path is required"))
		return
	}
	if entry.Kind == vtree.Directory {
		if pt, ok := vtree.Classify(entry.Path); ok {
			entry.Icon = string(pt)
		}
	}
	writeJSON(w, http.StatusOK, h.opts.Tree.TreeItem(*entry))
}

// handleWatch streams change events under ?path= as Server-Sent Events.
func (h *Host) handleWatch(w http.ResponseWriter, r *http.Request) {
	if h.opts.Tree == nil {
		http.Error(w, "tree not configured", http.StatusServiceUnavailable)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	root := r.URL.Query().Get("path")
	if root == "" {
		root = h.opts.Tree.WorkspaceRoot()
	}
	opts := h.opts.Watch
	if v := r.URL.Query().Get("recursive"); v != "" {
		recursive, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, errors.ValidationFailed(fmt.Sprintf("invalid recursive flag: %s", v)))
			return
		}
		opts.Recursive = recursive
	}

	watch, err := h.opts.Tree.Watch(root, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	defer watch.Close()
	ch := watch.Subscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	fmt.Fprintf(w, ": connected\n\n")
	flusher.Flush()
	h.logger.WithField("root", watch.Root()).Debug("Watch client connected")

	for {
		select {
		case <-r.Context().Done():
			h.logger.Debug("Watch client disconnected")
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				h.logger.WithError(err).Error("Failed to marshal change event")
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}
