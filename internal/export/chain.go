package export

import (
	apperrors "github.com/arcanahq/arcana/internal/errors"
	"github.com/arcanahq/arcana/internal/logging"
)

// Receipt reports which mechanism actually delivered the backup so the UI
// can show an accurate confirmation.
type Receipt struct {
	Strategy string
	Method   string
}

// Chain walks an ordered list of strategies until one delivers.
type Chain struct {
	strategies []Strategy
}

// NewChain builds a chain over the given strategies, attempted in order.
func NewChain(strategies ...Strategy) *Chain {
	return &Chain{strategies: strategies}
}

// Deliver attempts each strategy in order. Declined strategies fall through
// silently, failed ones are logged and fall through. When every strategy
// declines or fails the chain reports EXPORT_DELIVERY_FAILED.
func (c *Chain) Deliver(p Payload) (*Receipt, error) {
	for _, strategy := range c.strategies {
		outcome := strategy.Deliver(p)
		switch outcome.Status {
		case Delivered:
			logging.Info("backup delivered", map[string]interface{}{
				"strategy": strategy.Name(),
				"filename": p.Filename,
			})
			return &Receipt{Strategy: strategy.Name(), Method: strategy.Method()}, nil
		case Failed:
			logging.Warn("export strategy failed, trying next", map[string]interface{}{
				"strategy": strategy.Name(),
				"error":    outcome.Err.Error(),
			})
		case Declined:
			logging.Debug("export strategy declined", map[string]interface{}{
				"strategy": strategy.Name(),
			})
		}
	}
	return nil, apperrors.New(apperrors.ErrExportDeliveryFailed, "no export mechanism available on this platform")
}

// Platform bundles the delivery capabilities of the host so chain ordering
// stays data, not nested conditionals.
type Platform struct {
	Picker       SaveFunc
	Sharer       ShareFunc
	DownloadsDir string
	Clipboard    func(text string) error
}

// ExportChain is the combined "export" entry point: share sheet first on
// compact devices, then save dialog, browser-style download and clipboard.
func (pl Platform) ExportChain(compact bool) *Chain {
	var strategies []Strategy
	if compact {
		strategies = append(strategies, &ShareSheet{Sharer: pl.Sharer})
	}
	strategies = append(strategies,
		&SaveDialog{Picker: pl.Picker},
		&Download{Dir: pl.DownloadsDir},
		&Clipboard{WriteAll: pl.Clipboard},
	)
	return NewChain(strategies...)
}

// ShareChain is the explicit "share" entry point; no fallback past the
// share sheet.
func (pl Platform) ShareChain() *Chain {
	return NewChain(&ShareSheet{Sharer: pl.Sharer})
}

// ClipboardChain is the explicit "copy to clipboard" entry point.
func (pl Platform) ClipboardChain() *Chain {
	return NewChain(&Clipboard{WriteAll: pl.Clipboard})
}
