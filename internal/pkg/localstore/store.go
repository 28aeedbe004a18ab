package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"time"

	"vitrine/internal/pkg/logger"
)

// Store é um armazenamento chave/valor em disco: cada chave é uma coleção
// serializada em JSON no arquivo <dir>/<key>.json.
type Store struct {
	dir    string
	mu     sync.Mutex
	logger logger.Logger
}

// New cria o diretório de dados (se necessário) e retorna o Store.
func New(dir string, log logger.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("falha ao criar diretório de dados %s: %w", dir, err)
	}
	return &Store{dir: dir, logger: log}, nil
}

// Dir retorna o diretório de dados.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Load lê a coleção em v, que deve ser um ponteiro. Retorna false quando a
// chave não existe ou quando o conteúdo estava corrompido; nesse caso o
// arquivo é descartado (renomeado para .corrupt) e v não é alterado.
func (s *Store) Load(key string, v interface{}) (bool, error) {
	target := reflect.ValueOf(v)
	if target.Kind() != reflect.Ptr || target.IsNil() {
		return false, fmt.Errorf("destino inválido para %s: ponteiro não nulo esperado", key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("falha ao ler %s: %w", key, err)
	}
	if len(data) == 0 {
		return false, nil
	}

	// Decodifica em um valor novo: um erro de tipo no meio do payload deixaria
	// v preenchido pela metade.
	fresh := reflect.New(target.Elem().Type())
	if err := json.Unmarshal(data, fresh.Interface()); err != nil {
		quarantine := fmt.Sprintf("%s.corrupt-%d", s.path(key), time.Now().UnixNano())
		if renameErr := os.Rename(s.path(key), quarantine); renameErr != nil {
			_ = os.Remove(s.path(key))
		}
		s.logger.Warn("Conteúdo corrompido descartado no armazenamento local.", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return false, nil
	}
	target.Elem().Set(fresh.Elem())
	return true, nil
}

// Save grava a coleção de forma atômica (arquivo temporário + rename).
func (s *Store) Save(key string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("falha ao serializar %s: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("falha ao criar arquivo temporário para %s: %w", key, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("falha ao gravar %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("falha ao fechar %s: %w", key, err)
	}
	if err := os.Rename(tmpName, s.path(key)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("falha ao publicar %s: %w", key, err)
	}
	return nil
}
