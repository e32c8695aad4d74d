package metadata

import (
	"fmt"

	"lifdb/internal/logging"
	"lifdb/internal/store"
	"lifdb/internal/ux"
)

// reconciledKeys are checked against the database, in this order.
var reconciledKeys = []string{"user", "subset_name", "task", "used_in"}

// userInfoKeys is the contact card asked for each new user, in asking
// order.
var userInfoKeys = []string{"name", "surname", "email", "institution", "country"}

// Asker supplies answers to reconciliation prompts. *ux.Prompter
// implements it; tests use a scripted stand-in.
type Asker interface {
	Ask(label string) (string, error)
}

// Reconcile compares the categorical values stored in the database with
// the metadata enumerations and asks for a description of every value the
// metadata does not know yet. Both mirror files are rewritten after each
// updated key, and once more at the end with the refreshed row count.
func Reconcile(st *store.Store, m *Metadata, jsonPath, yamlPath string, ask Asker, p *ux.Printer) error {
	for _, key := range reconciledKeys {
		p.Info("Check `%s` values...", key)
		values, err := st.UniqueValues(key)
		if err != nil {
			return err
		}
		missing, err := m.NewValues(key, values)
		if err != nil {
			return err
		}
		if len(missing) == 0 {
			p.Info("No new values in key `%s`", key)
			continue
		}

		p.Warn("New values in key `%s`: %v", key, missing)
		if err := askNewValues(m, key, missing, ask, p); err != nil {
			return err
		}

		p.Info("Saving metadata...")
		if err := m.Write(jsonPath, yamlPath); err != nil {
			return err
		}
		p.Info("Metadata saved")
		logging.Meta("added %d value(s) to key %s", len(missing), key)
	}

	n, err := st.Count()
	if err != nil {
		return err
	}
	m.Rows = n
	if err := m.Write(jsonPath, yamlPath); err != nil {
		return err
	}
	p.Info("Metadata saved")
	return nil
}

func askNewValues(m *Metadata, key string, values []string, ask Asker, p *ux.Printer) error {
	p.Rule(fmt.Sprintf("== Updating the metadata for the new values in key `%s` ", key), '=')

	switch key {
	case "user":
		for _, value := range values {
			card := make(map[string]any, len(userInfoKeys))
			for _, info := range userInfoKeys {
				p.Plain("Please add the %s of `%s`", info, value)
				answer, err := ask.Ask(fmt.Sprintf("\t `%s` %s [None]: ", value, info))
				if err != nil {
					return err
				}
				if answer == "" {
					card[info] = nil
				} else {
					card[info] = answer
				}
			}
			m.setValue(key, value, card)
		}
	case "subset_name", "used_in":
		for _, value := range values {
			p.Plain("Please add the description of the new value in `%s`", key)
			answer, err := ask.Ask(fmt.Sprintf("\t `%s` description: ", value))
			if err != nil {
				return err
			}
			if answer == "" {
				return fmt.Errorf("key %s: a description of %q is mandatory", key, value)
			}
			m.setValue(key, value, answer)
		}
	case "task":
		for _, value := range values {
			p.Plain("Please add the description of the new task")
			answer, err := ask.Ask(fmt.Sprintf("\t `%s` description [None]: ", value))
			if err != nil {
				return err
			}
			if answer == "" {
				m.setValue(key, value, nil)
			} else {
				m.setValue(key, value, answer)
			}
		}
	default:
		return fmt.Errorf("updating key %q is not implemented", key)
	}

	p.Rule("-- Thanks for your input! ", '-')
	return nil
}
