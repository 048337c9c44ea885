package infra

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// FotoStorage persists visit check-in photos under a base directory. Paths
// stored in the database are relative to the base so the volume can move.
type FotoStorage struct {
	base string
}

// NewFotoStorage ensures the base directory exists up front so the health
// check and the first check-in of the day see the same state.
func NewFotoStorage(base string) *FotoStorage {
	if err := os.MkdirAll(base, 0755); err != nil {
		log.Warn().Err(err).Str("path", base).Msg("no se pudo crear el directorio de fotos")
	}
	return &FotoStorage{base: base}
}

// Guardar writes contenido at relPath (relative to the base), creating
// intermediate directories as needed.
func (f *FotoStorage) Guardar(relPath string, contenido []byte) error {
	destino := filepath.Join(f.base, relPath)
	if err := os.MkdirAll(filepath.Dir(destino), 0755); err != nil {
		return fmt.Errorf("fotos: create dir: %w", err)
	}
	if err := os.WriteFile(destino, contenido, 0644); err != nil {
		return fmt.Errorf("fotos: write %s: %w", relPath, err)
	}
	return nil
}
