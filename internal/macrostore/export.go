package macrostore

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/dshills/macropad/internal/keyaction"
)

// exportVersion is the current export document version.
const exportVersion = 1

// exportedAction is the YAML form of one key-action.
type exportedAction struct {
	Pressed bool  `yaml:"pressed"`
	Layer   uint8 `yaml:"layer"`
	Row     uint8 `yaml:"row"`
	Column  uint8 `yaml:"column"`
}

// exportedMacro is the YAML form of one macro.
type exportedMacro struct {
	Trigger exportedAction   `yaml:"trigger"`
	Actions []exportedAction `yaml:"actions"`
}

// exportDoc is the root of the export document.
type exportDoc struct {
	Version int             `yaml:"version"`
	Macros  []exportedMacro `yaml:"macros"`
}

func toExportedAction(k keyaction.KeyAction) exportedAction {
	return exportedAction{
		Pressed: k.Pressed,
		Layer:   k.Layer,
		Row:     k.Row,
		Column:  k.Column,
	}
}

func toKeyAction(a exportedAction) keyaction.KeyAction {
	return keyaction.KeyAction{
		Pressed: a.Pressed,
		Layer:   a.Layer,
		Row:     a.Row,
		Column:  a.Column,
	}
}

// Export returns every stored macro as a YAML document, for backup or
// hand-editing on the host.
func (s *Store) Export() ([]byte, error) {
	macros, err := s.Macros()
	if err != nil {
		return nil, err
	}

	doc := exportDoc{
		Version: exportVersion,
		Macros:  make([]exportedMacro, 0, len(macros)),
	}
	for _, m := range macros {
		em := exportedMacro{Trigger: toExportedAction(m.Trigger)}
		for _, a := range m.Actions {
			em.Actions = append(em.Actions, toExportedAction(a))
		}
		doc.Macros = append(doc.Macros, em)
	}
	return yaml.Marshal(doc)
}

// Import records the macros from a YAML export. With merge set, macros
// whose trigger already exists are skipped; otherwise they replace the
// stored macro. Imported actions bypass the record filter: the document
// is explicit data, not live input.
func (s *Store) Import(data []byte, merge bool) error {
	var doc exportDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing macro export: %w", err)
	}
	if doc.Version > exportVersion {
		return fmt.Errorf("unsupported macro export version %d (max %d)", doc.Version, exportVersion)
	}

	for _, em := range doc.Macros {
		trigger := toKeyAction(em.Trigger)

		if s.Exists(trigger) {
			if merge {
				continue
			}
			if err := s.Clear(trigger); err != nil {
				return err
			}
		}

		if err := s.importMacro(trigger, em.Actions); err != nil {
			return fmt.Errorf("importing macro for %v: %w", trigger, err)
		}
	}
	return nil
}

func (s *Store) importMacro(trigger keyaction.KeyAction, actions []exportedAction) error {
	if err := s.RecordInit(trigger); err != nil {
		return err
	}

	s.mu.Lock()
	for _, a := range actions {
		if err := s.appendActionLocked(toKeyAction(a)); err != nil {
			// Abandon the unpublished record; the committed log still ends
			// at the old terminator.
			s.recording = false
			s.rec = recordingState{}
			s.mu.Unlock()
			return err
		}
	}
	s.mu.Unlock()

	return s.RecordFinalize()
}
