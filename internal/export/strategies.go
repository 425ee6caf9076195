package export

import (
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"
)

// SaveFunc prompts the user to pick a location and writes the bytes there.
// It returns false without error when the user cancels the dialog.
type SaveFunc func(filename string, data []byte) (bool, error)

// ShareFunc packages the payload as a named file and invokes the OS share
// flow. It returns false without error when the user dismisses the sheet.
type ShareFunc func(filename string, data []byte) (bool, error)

// SaveDialog delivers through a platform file-save picker.
// A nil Picker means the platform exposes none.
type SaveDialog struct {
	Picker SaveFunc
}

func (s *SaveDialog) Name() string   { return "native-save-dialog" }
func (s *SaveDialog) Method() string { return "download" }

func (s *SaveDialog) Deliver(p Payload) Outcome {
	if s.Picker == nil {
		return Outcome{Status: Declined}
	}
	saved, err := s.Picker(p.Filename, p.Data)
	if err != nil {
		return Outcome{Status: Failed, Err: err}
	}
	if !saved {
		// user cancelled, not an error
		return Outcome{Status: Declined}
	}
	return Outcome{Status: Delivered}
}

// ShareSheet delivers through the OS share flow, typically on mobile.
// A nil Sharer means sharing is unsupported here.
type ShareSheet struct {
	Sharer ShareFunc
}

func (s *ShareSheet) Name() string   { return "share-sheet" }
func (s *ShareSheet) Method() string { return "share" }

func (s *ShareSheet) Deliver(p Payload) Outcome {
	if s.Sharer == nil {
		return Outcome{Status: Declined}
	}
	shared, err := s.Sharer(p.Filename, p.Data)
	if err != nil {
		return Outcome{Status: Failed, Err: err}
	}
	if !shared {
		return Outcome{Status: Declined}
	}
	return Outcome{Status: Delivered}
}

// Download writes the backup into the user's downloads directory, the
// universal desktop fallback.
type Download struct {
	Dir string
}

func (d *Download) Name() string   { return "download" }
func (d *Download) Method() string { return "download" }

func (d *Download) Deliver(p Payload) Outcome {
	if d.Dir == "" {
		return Outcome{Status: Declined}
	}
	if err := os.MkdirAll(d.Dir, 0755); err != nil {
		return Outcome{Status: Failed, Err: err}
	}
	if err := os.WriteFile(filepath.Join(d.Dir, p.Filename), p.Data, 0644); err != nil {
		return Outcome{Status: Failed, Err: err}
	}
	return Outcome{Status: Delivered}
}

// Clipboard copies the raw serialized text to the system clipboard as the
// last resort; the user is instructed to paste it into a file.
type Clipboard struct {
	// WriteAll is swappable for tests; defaults to the system clipboard.
	WriteAll func(text string) error
}

func (c *Clipboard) Name() string   { return "clipboard" }
func (c *Clipboard) Method() string { return "clipboard" }

func (c *Clipboard) Deliver(p Payload) Outcome {
	write := c.WriteAll
	if write == nil {
		write = clipboard.WriteAll
	}
	if err := write(p.Text()); err != nil {
		return Outcome{Status: Failed, Err: err}
	}
	return Outcome{Status: Delivered}
}
