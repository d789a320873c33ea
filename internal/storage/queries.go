package storage

import (
	"database/sql"
	"strings"

	graphErrors "github.com/craigsteyn/sourcetraildb/internal/errors"
)

// AllFiles returns every row of the file table.
func (db *DB) AllFiles() ([]File, error) {
	rows, err := db.conn.Query(`SELECT id, path, language, indexed, complete FROM file`)
	if err != nil {
		return nil, graphErrors.New(graphErrors.StorageError, "all_files query failed", err)
	}
	defer rows.Close()

	var files []File
	for rows.Next() {
		var f File
		if err := rows.Scan(&f.ID, &f.Path, &f.Language, &f.Indexed, &f.Complete); err != nil {
			return nil, graphErrors.New(graphErrors.StorageError, "all_files scan failed", err)
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, graphErrors.New(graphErrors.StorageError, "all_files iteration failed", err)
	}
	return files, nil
}

// AllNodes returns every row of the node table.
func (db *DB) AllNodes() ([]Node, error) {
	rows, err := db.conn.Query(`SELECT id, node_kind, serialized_name FROM node`)
	if err != nil {
		return nil, graphErrors.New(graphErrors.StorageError, "all_nodes query failed", err)
	}
	defer rows.Close()
	return scanNodes(rows)
}

// AllEdgesBrief returns the (source_id, target_id, edge_kind) projection of
// every edge row, without the edge id.
func (db *DB) AllEdgesBrief() ([]EdgeBrief, error) {
	rows, err := db.conn.Query(`SELECT source_node_id, target_node_id, edge_kind FROM edge`)
	if err != nil {
		return nil, graphErrors.New(graphErrors.StorageError, "all_edges_brief query failed", err)
	}
	defer rows.Close()
	return scanEdgeBriefs(rows)
}

// AllSymbolNodes is the inner join of node with the is-symbol table.
func (db *DB) AllSymbolNodes() ([]Node, error) {
	rows, err := db.conn.Query(`
		SELECT n.id, n.node_kind, n.serialized_name
		FROM node n
		JOIN symbol s ON s.id = n.id
	`)
	if err != nil {
		return nil, graphErrors.New(graphErrors.StorageError, "all_symbol_nodes query failed", err)
	}
	defer rows.Close()
	return scanNodes(rows)
}

// NodeByID looks up a single node. Returns (nil, nil) when absent.
func (db *DB) NodeByID(id int64) (*Node, error) {
	var n Node
	err := db.conn.QueryRow(`SELECT id, node_kind, serialized_name FROM node WHERE id = ?`, id).
		Scan(&n.ID, &n.NodeKind, &n.SerializedName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, graphErrors.New(graphErrors.StorageError, "node_by_id query failed", err)
	}
	return &n, nil
}

// DefinitionKindOf looks up the is-symbol table's definition kind for an
// id. Returns ("", false, nil) when the id is not a symbol.
func (db *DB) DefinitionKindOf(id int64) (DefinitionKind, bool, error) {
	var kind string
	err := db.conn.QueryRow(`SELECT definition_kind FROM symbol WHERE id = ?`, id).Scan(&kind)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, graphErrors.New(graphErrors.StorageError, "definition_kind_of query failed", err)
	}
	return DefinitionKind(kind), true, nil
}

// NodesBySerializedExact returns every node whose serialized_name matches
// exactly.
func (db *DB) NodesBySerializedExact(serialized string) ([]Node, error) {
	rows, err := db.conn.Query(`SELECT id, node_kind, serialized_name FROM node WHERE serialized_name = ?`, serialized)
	if err != nil {
		return nil, graphErrors.New(graphErrors.StorageError, "nodes_by_serialized_exact query failed", err)
	}
	defer rows.Close()
	return scanNodes(rows)
}

// SymbolNodesBySerializedLike returns symbol nodes whose serialized_name
// matches a SQL-style '%' pattern.
func (db *DB) SymbolNodesBySerializedLike(pattern string) ([]Node, error) {
	rows, err := db.conn.Query(`
		SELECT n.id, n.node_kind, n.serialized_name
		FROM node n
		JOIN symbol s ON s.id = n.id
		WHERE n.serialized_name LIKE ?
	`, pattern)
	if err != nil {
		return nil, graphErrors.New(graphErrors.StorageError, "symbol_nodes_by_serialized_like query failed", err)
	}
	defer rows.Close()
	return scanNodes(rows)
}

// EdgesFrom returns every edge whose source is id.
func (db *DB) EdgesFrom(id int64) ([]EdgeBrief, error) {
	rows, err := db.conn.Query(`SELECT source_node_id, target_node_id, edge_kind FROM edge WHERE source_node_id = ?`, id)
	if err != nil {
		return nil, graphErrors.New(graphErrors.StorageError, "edges_from query failed", err)
	}
	defer rows.Close()
	return scanEdgeBriefs(rows)
}

// EdgesTo returns every edge whose target is id.
func (db *DB) EdgesTo(id int64) ([]EdgeBrief, error) {
	rows, err := db.conn.Query(`SELECT source_node_id, target_node_id, edge_kind FROM edge WHERE target_node_id = ?`, id)
	if err != nil {
		return nil, graphErrors.New(graphErrors.StorageError, "edges_to query failed", err)
	}
	defer rows.Close()
	return scanEdgeBriefs(rows)
}

// EdgesFromOfKinds returns edges from id restricted to the given kinds.
func (db *DB) EdgesFromOfKinds(id int64, kinds []EdgeKind) ([]EdgeBrief, error) {
	if len(kinds) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(kinds))
	args := make([]interface{}, 0, len(kinds)+1)
	args = append(args, id)
	for i, k := range kinds {
		placeholders[i] = "?"
		args = append(args, string(k))
	}
	query := `SELECT source_node_id, target_node_id, edge_kind FROM edge WHERE source_node_id = ? AND edge_kind IN (` +
		strings.Join(placeholders, ",") + `)`

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, graphErrors.New(graphErrors.StorageError, "edges_from_of_kinds query failed", err)
	}
	defer rows.Close()
	return scanEdgeBriefs(rows)
}

// SymbolsInFiles returns the distinct symbol nodes with at least one source
// location in the given file set.
func (db *DB) SymbolsInFiles(fileIDs []int64) ([]Node, error) {
	if len(fileIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(fileIDs))
	args := make([]interface{}, len(fileIDs))
	for i, id := range fileIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	query := `
		SELECT DISTINCT n.id, n.node_kind, n.serialized_name
		FROM node n
		JOIN symbol s ON s.id = n.id
		JOIN occurrence o ON o.element_id = n.id
		JOIN source_location sl ON sl.id = o.source_location_id
		WHERE sl.file_id IN (` + strings.Join(placeholders, ",") + `)
	`
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, graphErrors.New(graphErrors.StorageError, "symbols_in_files query failed", err)
	}
	defer rows.Close()
	return scanNodes(rows)
}

// LocationsInFile returns every source location recorded in file_id.
func (db *DB) LocationsInFile(fileID int64) ([]SourceLocation, error) {
	rows, err := db.conn.Query(`
		SELECT id, file_id, start_line, start_col, end_line, end_col, kind
		FROM source_location
		WHERE file_id = ?
	`, fileID)
	if err != nil {
		return nil, graphErrors.New(graphErrors.StorageError, "locations_in_file query failed", err)
	}
	defer rows.Close()
	return scanLocations(rows)
}

// LocationsForSymbol returns every source location occurring for id,
// across all files.
func (db *DB) LocationsForSymbol(id int64) ([]SourceLocation, error) {
	rows, err := db.conn.Query(`
		SELECT sl.id, sl.file_id, sl.start_line, sl.start_col, sl.end_line, sl.end_col, sl.kind
		FROM source_location sl
		JOIN occurrence o ON o.source_location_id = sl.id
		WHERE o.element_id = ?
	`, id)
	if err != nil {
		return nil, graphErrors.New(graphErrors.StorageError, "locations_for_symbol query failed", err)
	}
	defer rows.Close()
	return scanLocations(rows)
}

// LocationsForSymbolInFile narrows LocationsForSymbol to one file.
func (db *DB) LocationsForSymbolInFile(id int64, fileID int64) ([]SourceLocation, error) {
	rows, err := db.conn.Query(`
		SELECT sl.id, sl.file_id, sl.start_line, sl.start_col, sl.end_line, sl.end_col, sl.kind
		FROM source_location sl
		JOIN occurrence o ON o.source_location_id = sl.id
		WHERE o.element_id = ? AND sl.file_id = ?
	`, id, fileID)
	if err != nil {
		return nil, graphErrors.New(graphErrors.StorageError, "locations_for_symbol_in_file query failed", err)
	}
	defer rows.Close()
	return scanLocations(rows)
}

func scanNodes(rows *sql.Rows) ([]Node, error) {
	var nodes []Node
	for rows.Next() {
		var n Node
		if err := rows.Scan(&n.ID, &n.NodeKind, &n.SerializedName); err != nil {
			return nil, graphErrors.New(graphErrors.StorageError, "node scan failed", err)
		}
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, graphErrors.New(graphErrors.StorageError, "node iteration failed", err)
	}
	return nodes, nil
}

func scanEdgeBriefs(rows *sql.Rows) ([]EdgeBrief, error) {
	var edges []EdgeBrief
	for rows.Next() {
		var e EdgeBrief
		var kind string
		if err := rows.Scan(&e.SourceID, &e.TargetID, &kind); err != nil {
			return nil, graphErrors.New(graphErrors.StorageError, "edge scan failed", err)
		}
		e.Kind = edgeKindFromRow(kind)
		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, graphErrors.New(graphErrors.StorageError, "edge iteration failed", err)
	}
	return edges, nil
}

func scanLocations(rows *sql.Rows) ([]SourceLocation, error) {
	var locs []SourceLocation
	for rows.Next() {
		var l SourceLocation
		var kind string
		if err := rows.Scan(&l.ID, &l.FileID, &l.StartLine, &l.StartCol, &l.EndLine, &l.EndCol, &kind); err != nil {
			return nil, graphErrors.New(graphErrors.StorageError, "source_location scan failed", err)
		}
		l.Kind = LocationKind(kind)
		locs = append(locs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, graphErrors.New(graphErrors.StorageError, "source_location iteration failed", err)
	}
	return locs, nil
}
