package fallbackrepo

import (
	"sort"
	"sync"

	"vitrine/internal/pkg/logger"
	"vitrine/internal/pkg/metrics"
)

// Health registra quais coleções estão em modo degradado, isto é, operando
// no armazenamento local porque o backend primário falhou.
type Health struct {
	logger  logger.Logger
	metrics *metrics.Metrics

	mu       sync.RWMutex
	degraded map[string]bool
}

// NewHealth cria o registro de saúde compartilhado pelos repositórios de fallback.
func NewHealth(log logger.Logger, m *metrics.Metrics) *Health {
	return &Health{
		logger:   log,
		metrics:  m,
		degraded: make(map[string]bool),
	}
}

// CollectionStatus é o estado de uma coleção.
type CollectionStatus struct {
	Collection string `json:"collection"`
	Degraded   bool   `json:"degraded"`
}

// Degraded informa se a coleção está em modo degradado.
func (h *Health) Degraded(collection string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.degraded[collection]
}

// AnyDegraded informa se alguma coleção está em modo degradado.
func (h *Health) AnyDegraded() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, d := range h.degraded {
		if d {
			return true
		}
	}
	return false
}

// Snapshot retorna o estado de todas as coleções já observadas, em ordem alfabética.
func (h *Health) Snapshot() []CollectionStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]CollectionStatus, 0, len(h.degraded))
	for c, d := range h.degraded {
		out = append(out, CollectionStatus{Collection: c, Degraded: d})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Collection < out[j].Collection })
	return out
}

func (h *Health) markFailure(collection string, err error) {
	h.metrics.PersistenceFallback(collection)

	h.mu.Lock()
	was := h.degraded[collection]
	h.degraded[collection] = true
	h.mu.Unlock()

	h.metrics.SetDegraded(collection, true)
	if !was {
		h.logger.Warn("Backend primário indisponível; usando armazenamento local.", map[string]interface{}{
			"collection": collection,
			"error":      err.Error(),
		})
	}
}

func (h *Health) markHealthy(collection string) {
	h.mu.Lock()
	was, seen := h.degraded[collection]
	h.degraded[collection] = false
	h.mu.Unlock()

	if !seen || was {
		h.metrics.SetDegraded(collection, false)
	}
	if was {
		h.logger.Info("Backend primário restabelecido.", map[string]interface{}{"collection": collection})
	}
}
