package httpapi

import (
	"github.com/pocketfin/pocketfin/internal/service/stats"
	"github.com/pocketfin/pocketfin/internal/service/transaction"
	"github.com/pocketfin/pocketfin/internal/service/wallet"
	"github.com/pocketfin/pocketfin/internal/storage/memory"
)

// Compile-time interface assertions for the in-memory Store against the
// service interfaces wired through this API.
var (
	_ wallet.Repo        = (*memory.Store)(nil)
	_ wallet.Writer      = (*memory.Store)(nil)
	_ wallet.Purger      = (*memory.Store)(nil)
	_ transaction.Repo   = (*memory.Store)(nil)
	_ transaction.Writer = (*memory.Store)(nil)
	_ stats.Reader       = (*memory.Store)(nil)
)
