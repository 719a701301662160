package kvstore

import (
	"github.com/fystack/megasena-analyzer/pkg/common/config"
	"github.com/fystack/megasena-analyzer/pkg/infra"
)

// NewFromConfig opens the badger store described by the state section.
func NewFromConfig(cfg config.StateConfig) (infra.KVStore, error) {
	return NewBadgerStore(cfg.Directory, cfg.Prefix, infra.JSON)
}
