package state

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/flowdeck-labs/flowdeck/pkg/core"
)

// RecordServerInstall records an MCP server in the install registry.
// Re-installing an existing server replaces its definition.
func (s *SQLiteStore) RecordServerInstall(server *core.MCPServer) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	if server.Name == "" {
		return fmt.Errorf("server name is required")
	}

	argsJSON, err := json.Marshal(server.Args)
	if err != nil {
		return fmt.Errorf("failed to serialize args: %w", err)
	}
	envJSON, err := json.Marshal(server.Env)
	if err != nil {
		return fmt.Errorf("failed to serialize env: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO mcp_servers (name, command, args, env, url, installed_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
		     command = excluded.command, args = excluded.args,
		     env = excluded.env, url = excluded.url,
		     installed_at = excluded.installed_at`,
		server.Name, server.Command, string(argsJSON), string(envJSON),
		server.URL, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record server install: %w", err)
	}
	return nil
}

// ListInstalledServers returns all installed MCP servers ordered by name.
func (s *SQLiteStore) ListInstalledServers() ([]*core.MCPServer, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.Query(
		`SELECT name, command, args, env, url FROM mcp_servers ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list servers: %w", err)
	}
	defer rows.Close()

	var servers []*core.MCPServer
	for rows.Next() {
		server, err := scanServer(rows)
		if err != nil {
			return nil, err
		}
		servers = append(servers, server)
	}
	return servers, rows.Err()
}

// IsServerInstalled reports whether a server name is in the install registry.
func (s *SQLiteStore) IsServerInstalled(name string) (bool, error) {
	if s.db == nil {
		return false, fmt.Errorf("database not opened")
	}

	var one int
	err := s.db.QueryRow(`SELECT 1 FROM mcp_servers WHERE name = ?`, name).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check server install: %w", err)
	}
	return true, nil
}

// RemoveServerInstall removes a server from the install registry.
func (s *SQLiteStore) RemoveServerInstall(name string) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	result, err := s.db.Exec(`DELETE FROM mcp_servers WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to remove server install: %w", err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("server not installed: %s", name)
	}
	return nil
}

func scanServer(row scanner) (*core.MCPServer, error) {
	server := &core.MCPServer{}
	var command, args, env, url sql.NullString

	if err := row.Scan(&server.Name, &command, &args, &env, &url); err != nil {
		return nil, fmt.Errorf("failed to scan server: %w", err)
	}

	server.Command = command.String
	server.URL = url.String

	if args.Valid && args.String != "" && args.String != "null" {
		if err := json.Unmarshal([]byte(args.String), &server.Args); err != nil {
			return nil, fmt.Errorf("failed to decode server args: %w", err)
		}
	}
	if env.Valid && env.String != "" && env.String != "null" {
		if err := json.Unmarshal([]byte(env.String), &server.Env); err != nil {
			return nil, fmt.Errorf("failed to decode server env: %w", err)
		}
	}

	return server, nil
}
