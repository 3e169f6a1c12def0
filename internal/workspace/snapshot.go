// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package workspace

// FileInfo describes one selected file for display.
type FileInfo struct {
	Index    int    `json:"index"`
	Name     string `json:"name"`
	MIMEType string `json:"mime_type,omitempty"`
	Size     int    `json:"size"`
}

// Snapshot is the view of the workspace a UI renders. Visibility flags
// follow the lifecycle: the result panel only in Success, the error panel
// only in Failed, the loading indicator only in Loading.
type Snapshot struct {
	State      State      `json:"state"`
	Files      []FileInfo `json:"files"`
	Loading    bool       `json:"loading"`
	CanProcess bool       `json:"can_process"`
	ShowResult bool       `json:"show_result"`
	ResultHTML string     `json:"result_html,omitempty"`

	// ResultMarkdown lets the browser save the download without a round trip.
	ResultMarkdown string `json:"result_markdown,omitempty"`

	RunID       string `json:"run_id,omitempty"`
	ShowError   bool   `json:"show_error"`
	Error       string `json:"error,omitempty"`
	CanDownload bool   `json:"can_download"`

	// Seq increases with every change notification. Snapshot returns the
	// Seq of the most recent change.
	Seq uint64 `json:"seq"`
}

// Snapshot returns the current view.
func (w *Workspace) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshotLocked()
}

func (w *Workspace) snapshotLocked() Snapshot {
	files := w.files.List()
	infos := make([]FileInfo, len(files))
	for i, f := range files {
		infos[i] = FileInfo{Index: i, Name: f.Name, MIMEType: f.MIMEType, Size: f.Size()}
	}

	s := Snapshot{
		Seq:        w.seq,
		State:      w.state,
		Files:      infos,
		Loading:    w.state == StateLoading,
		CanProcess: w.state != StateLoading && len(files) > 0,
	}
	switch w.state {
	case StateSuccess:
		s.ShowResult = true
		s.ResultHTML = w.result.HTML
		s.ResultMarkdown = w.result.Markdown
		s.RunID = w.result.RunID
		s.CanDownload = true
	case StateFailed:
		s.ShowError = true
		s.Error = w.errMsg
	}
	return s
}
