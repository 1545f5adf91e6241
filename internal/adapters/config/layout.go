package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"go.trai.ch/quarry/internal/core/domain"
)

// KeyGameDir selects the game directory; QUARRY_GAME_DIR overrides it.
const KeyGameDir = "game_dir"

// ResolveLayout returns the cache layout of the configured game directory
// and makes sure its root exists.
func ResolveLayout() (domain.Layout, error) {
	v := viper.New()
	v.SetDefault(KeyGameDir, domain.DefaultGameDir())
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	root, err := filepath.Abs(v.GetString(KeyGameDir))
	if err != nil {
		return domain.Layout{}, err
	}
	layout := domain.NewLayout(root)
	if err := os.MkdirAll(layout.Root, domain.DirPerm); err != nil {
		return domain.Layout{}, err
	}
	return layout, nil
}
