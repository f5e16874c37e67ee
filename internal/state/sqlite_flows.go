package state

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/flowdeck-labs/flowdeck/pkg/core"
)

// RegisterFlow registers a new flow or updates an existing one by name.
func (s *SQLiteStore) RegisterFlow(flow *core.PersistedFlow) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	// Ensure embedded Flow is not nil
	if flow.Flow == nil {
		flow.Flow = &core.Flow{}
	}

	// Default source to local if not set
	if flow.Source == "" {
		flow.Source = core.SourceLocal
	}

	serversJSON, err := json.Marshal(flow.RequiredServers)
	if err != nil {
		return fmt.Errorf("failed to serialize required servers: %w", err)
	}

	now := time.Now().UTC()

	existing, err := s.GetFlowByName(flow.Name)
	if err != nil {
		return fmt.Errorf("failed to check existing flow: %w", err)
	}

	if existing != nil {
		// Update existing flow, preserve the ID
		flow.ID = existing.ID
		flow.CreatedAt = existing.CreatedAt
		flow.UpdatedAt = now

		_, err = s.db.Exec(
			`UPDATE flows SET source = ?, collection = ?, description = ?, provider = ?,
			        model = ?, version = ?, required_servers = ?, file_path = ?,
			        content_hash = ?, updated_at = ?
			 WHERE id = ?`,
			string(flow.Source), flow.Collection, flow.Description, flow.Provider,
			flow.Model, flow.Version, string(serversJSON), flow.FilePath,
			flow.ContentHash, flow.UpdatedAt, flow.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update flow: %w", err)
		}
		return nil
	}

	if flow.ID == "" {
		flow.ID = generateID()
	}
	flow.CreatedAt = now
	flow.UpdatedAt = now

	_, err = s.db.Exec(
		`INSERT INTO flows (id, name, source, collection, description, provider, model,
		                    version, required_servers, file_path, content_hash,
		                    created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		flow.ID, flow.Name, string(flow.Source), flow.Collection, flow.Description,
		flow.Provider, flow.Model, flow.Version, string(serversJSON), flow.FilePath,
		flow.ContentHash, flow.CreatedAt, flow.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert flow: %w", err)
	}
	return nil
}

const flowColumns = `id, name, source, collection, description, provider, model,
	version, required_servers, file_path, content_hash, created_at, updated_at`

// GetFlowByID retrieves a flow by ID.
func (s *SQLiteStore) GetFlowByID(id string) (*core.PersistedFlow, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	row := s.db.QueryRow(`SELECT `+flowColumns+` FROM flows WHERE id = ?`, id)
	flow, err := scanFlow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("flow not found: %s", id)
	}
	return flow, err
}

// GetFlowByName retrieves a flow by its unique name.
// Returns nil, nil when no flow with that name exists.
func (s *SQLiteStore) GetFlowByName(name string) (*core.PersistedFlow, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	row := s.db.QueryRow(`SELECT `+flowColumns+` FROM flows WHERE name = ?`, name)
	flow, err := scanFlow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return flow, err
}

// ListFlows returns all flows ordered by name.
func (s *SQLiteStore) ListFlows() ([]*core.PersistedFlow, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.Query(`SELECT ` + flowColumns + ` FROM flows ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list flows: %w", err)
	}
	defer rows.Close()

	var flows []*core.PersistedFlow
	for rows.Next() {
		flow, err := scanFlow(rows)
		if err != nil {
			return nil, err
		}
		flows = append(flows, flow)
	}
	return flows, rows.Err()
}

// DeleteFlowByName removes a flow record by name.
func (s *SQLiteStore) DeleteFlowByName(name string) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	result, err := s.db.Exec(`DELETE FROM flows WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete flow: %w", err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("flow not found: %s", name)
	}
	return nil
}

// DeleteFlowByFilePath removes a flow record by its file path.
// Used during discovery to prune flows whose files vanished.
func (s *SQLiteStore) DeleteFlowByFilePath(filePath string) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	_, err := s.db.Exec(`DELETE FROM flows WHERE file_path = ?`, filePath)
	if err != nil {
		return fmt.Errorf("failed to delete flow: %w", err)
	}
	return nil
}

// ListFlowFilePaths returns the file paths of all tracked flows.
func (s *SQLiteStore) ListFlowFilePaths() ([]string, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.Query(`SELECT file_path FROM flows WHERE file_path != ''`)
	if err != nil {
		return nil, fmt.Errorf("failed to list flow file paths: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

// SetFlowModel updates the provider and model selection for a flow.
func (s *SQLiteStore) SetFlowModel(name, provider, model string) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	result, err := s.db.Exec(
		`UPDATE flows SET provider = ?, model = ?, updated_at = ? WHERE name = ?`,
		provider, model, time.Now().UTC(), name,
	)
	if err != nil {
		return fmt.Errorf("failed to set flow model: %w", err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("flow not found: %s", name)
	}
	return nil
}

// scanner abstracts sql.Row and sql.Rows for scanFlow.
type scanner interface {
	Scan(dest ...any) error
}

func scanFlow(row scanner) (*core.PersistedFlow, error) {
	flow := &core.PersistedFlow{Flow: &core.Flow{}}
	var (
		source      string
		collection  sql.NullString
		description sql.NullString
		provider    sql.NullString
		model       sql.NullString
		version     sql.NullString
		servers     sql.NullString
		filePath    sql.NullString
	)

	err := row.Scan(
		&flow.ID, &flow.Name, &source, &collection, &description, &provider,
		&model, &version, &servers, &filePath, &flow.ContentHash,
		&flow.CreatedAt, &flow.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan flow: %w", err)
	}

	flow.Source = core.FlowSource(source)
	flow.Collection = collection.String
	flow.Description = description.String
	flow.Provider = provider.String
	flow.Model = model.String
	flow.Version = version.String
	flow.FilePath = filePath.String

	if servers.Valid && servers.String != "" && servers.String != "null" {
		if err := json.Unmarshal([]byte(servers.String), &flow.RequiredServers); err != nil {
			return nil, fmt.Errorf("failed to decode required servers: %w", err)
		}
	}

	return flow, nil
}
