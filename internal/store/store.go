package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"

	"stabl/internal/cascade"
	"stabl/internal/errors"
	"stabl/internal/graphfile"
	"stabl/internal/typemodel"
)

// paramRecord is the JSON shape of one callable parameter in the
// callables.params column. Types are stored in their canonical rendered
// form and re-parsed on read.
type paramRecord struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Import validates the document and replaces the stored graph with its
// contents in a single transaction. Callees pointing at callables absent
// from the document are dropped, matching the in-memory loader.
func (s *Store) Import(doc *graphfile.Document) error {
	g, err := doc.Build(typemodel.NewSnapshot())
	if err != nil {
		return err
	}

	err = s.WithTx(func(tx *sql.Tx) error {
		for _, table := range []string{"types", "properties", "supertypes", "aliases", "callables", "call_edges"} {
			if _, err := tx.Exec("DELETE FROM " + table); err != nil {
				return err
			}
		}

		for _, decl := range g.Snapshot.Decls() {
			if err := insertDecl(tx, decl); err != nil {
				return err
			}
		}

		aliases := g.Snapshot.Aliases()
		names := make([]string, 0, len(aliases))
		for name := range aliases {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			_, err := tx.Exec("INSERT INTO aliases (name, target) VALUES (?, ?)",
				name, typemodel.Render(aliases[name]))
			if err != nil {
				return err
			}
		}

		for _, id := range g.CallableIDs() {
			c, _ := g.Callable(id)
			if err := insertCallable(tx, c); err != nil {
				return err
			}
			for ord, callee := range g.Callees(cascade.CallableID(id)) {
				_, err := tx.Exec("INSERT INTO call_edges (caller, ord, callee) VALUES (?, ?, ?)",
					id, ord, string(callee))
				if err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return errors.New(errors.StoreUnavailable, "graph import failed", err)
	}

	s.logger.Info("Graph imported", map[string]interface{}{
		"types":     g.Snapshot.Len(),
		"callables": len(g.CallableIDs()),
		"path":      s.dbPath,
	})
	return nil
}

func insertDecl(tx *sql.Tx, decl *typemodel.ClassDecl) error {
	typeParams, err := json.Marshal(decl.TypeParams)
	if err != nil {
		return err
	}
	annotations, err := json.Marshal(decl.Annotations)
	if err != nil {
		return err
	}

	var wrappedName, wrappedType interface{}
	var wrappedMutable interface{}
	if decl.Wrapped != nil {
		wrappedName = decl.Wrapped.Name
		wrappedType = typemodel.Render(decl.Wrapped.Type)
		wrappedMutable = decl.Wrapped.Mutable
	}
	var inferred interface{}
	if decl.InferredStability != nil {
		inferred = *decl.InferredStability
	}

	_, err = tx.Exec(`INSERT INTO types
		(qualified_name, simple_name, kind, modality, type_params, annotations,
		 wrapped_name, wrapped_type, wrapped_mutable, inferred_stability)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		decl.QualifiedName, decl.SimpleName, string(decl.Kind), string(decl.Modality),
		string(typeParams), string(annotations),
		wrappedName, wrappedType, wrappedMutable, inferred)
	if err != nil {
		return err
	}

	for ord, prop := range decl.Properties {
		_, err := tx.Exec("INSERT INTO properties (owner, ord, name, type, mutable) VALUES (?, ?, ?, ?, ?)",
			decl.QualifiedName, ord, prop.Name, typemodel.Render(prop.Type), prop.Mutable)
		if err != nil {
			return err
		}
	}
	for ord, super := range decl.Supertypes {
		_, err := tx.Exec("INSERT INTO supertypes (owner, ord, type) VALUES (?, ?, ?)",
			decl.QualifiedName, ord, typemodel.Render(super))
		if err != nil {
			return err
		}
	}
	return nil
}

func insertCallable(tx *sql.Tx, c *typemodel.Callable) error {
	typeParams, err := json.Marshal(c.TypeParams)
	if err != nil {
		return err
	}
	records := make([]paramRecord, 0, len(c.Params))
	for _, p := range c.Params {
		records = append(records, paramRecord{Name: p.Name, Type: typemodel.Render(p.Type)})
	}
	params, err := json.Marshal(records)
	if err != nil {
		return err
	}
	_, err = tx.Exec("INSERT INTO callables (id, type_params, params) VALUES (?, ?, ?)",
		c.ID, string(typeParams), string(params))
	return err
}

// Resolve implements typemodel.Facade. Query failures degrade to a
// failed lookup after a warning; the classifier then reports a runtime
// verdict rather than aborting the analysis.
func (s *Store) Resolve(ref typemodel.TypeRef) (*typemodel.ClassDecl, bool) {
	row := s.conn.QueryRow(`SELECT simple_name, kind, modality, type_params, annotations,
		wrapped_name, wrapped_type, wrapped_mutable, inferred_stability
		FROM types WHERE qualified_name = ?`, ref.Name)

	var simpleName, kind, modality, typeParamsJSON, annotationsJSON string
	var wrappedName, wrappedType sql.NullString
	var wrappedMutable sql.NullBool
	var inferred sql.NullInt64
	err := row.Scan(&simpleName, &kind, &modality, &typeParamsJSON, &annotationsJSON,
		&wrappedName, &wrappedType, &wrappedMutable, &inferred)
	if err == sql.ErrNoRows {
		return nil, false
	}
	if err != nil {
		s.warnQuery("types", ref.Name, err)
		return nil, false
	}

	decl := &typemodel.ClassDecl{
		QualifiedName: ref.Name,
		SimpleName:    simpleName,
		Kind:          typemodel.ClassKind(kind),
		Modality:      typemodel.Modality(modality),
	}
	if err := json.Unmarshal([]byte(typeParamsJSON), &decl.TypeParams); err != nil {
		s.warnQuery("types", ref.Name, err)
		return nil, false
	}
	if err := json.Unmarshal([]byte(annotationsJSON), &decl.Annotations); err != nil {
		s.warnQuery("types", ref.Name, err)
		return nil, false
	}

	scope := make(map[string]bool, len(decl.TypeParams))
	for _, p := range decl.TypeParams {
		scope[p] = true
	}

	if wrappedName.Valid && wrappedType.Valid {
		wref, err := typemodel.ParseTypeRef(wrappedType.String, scope)
		if err != nil {
			s.warnQuery("types", ref.Name, err)
			return nil, false
		}
		decl.Wrapped = &typemodel.PropertyDecl{
			Name:    wrappedName.String,
			Type:    wref,
			Mutable: wrappedMutable.Valid && wrappedMutable.Bool,
		}
	}
	if inferred.Valid {
		n := int(inferred.Int64)
		decl.InferredStability = &n
	}

	if decl.Properties, err = s.loadProperties(ref.Name, scope); err != nil {
		s.warnQuery("properties", ref.Name, err)
		return nil, false
	}
	if decl.Supertypes, err = s.loadSupertypes(ref.Name, scope); err != nil {
		s.warnQuery("supertypes", ref.Name, err)
		return nil, false
	}
	return decl, true
}

func (s *Store) loadProperties(owner string, scope map[string]bool) ([]typemodel.PropertyDecl, error) {
	rows, err := s.conn.Query("SELECT name, type, mutable FROM properties WHERE owner = ? ORDER BY ord", owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []typemodel.PropertyDecl
	for rows.Next() {
		var name, typeText string
		var mutable bool
		if err := rows.Scan(&name, &typeText, &mutable); err != nil {
			return nil, err
		}
		ref, err := typemodel.ParseTypeRef(typeText, scope)
		if err != nil {
			return nil, fmt.Errorf("property %s: %w", name, err)
		}
		out = append(out, typemodel.PropertyDecl{Name: name, Type: ref, Mutable: mutable})
	}
	return out, rows.Err()
}

func (s *Store) loadSupertypes(owner string, scope map[string]bool) ([]typemodel.TypeRef, error) {
	rows, err := s.conn.Query("SELECT type FROM supertypes WHERE owner = ? ORDER BY ord", owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []typemodel.TypeRef
	for rows.Next() {
		var typeText string
		if err := rows.Scan(&typeText); err != nil {
			return nil, err
		}
		ref, err := typemodel.ParseTypeRef(typeText, scope)
		if err != nil {
			return nil, err
		}
		out = append(out, ref)
	}
	return out, rows.Err()
}

// maxAliasDepth mirrors the in-memory snapshot's expansion cap.
const maxAliasDepth = 16

// ExpandAlias implements typemodel.Facade.
func (s *Store) ExpandAlias(ref typemodel.TypeRef) typemodel.TypeRef {
	nullable := ref.Nullable
	for i := 0; i < maxAliasDepth; i++ {
		if ref.Alias != nil {
			ref = *ref.Alias
			continue
		}
		var target string
		err := s.conn.QueryRow("SELECT target FROM aliases WHERE name = ?", ref.Name).Scan(&target)
		if err == sql.ErrNoRows {
			break
		}
		if err != nil {
			s.warnQuery("aliases", ref.Name, err)
			break
		}
		parsed, err := typemodel.ParseTypeRef(target, nil)
		if err != nil {
			s.warnQuery("aliases", ref.Name, err)
			break
		}
		ref = parsed
	}
	if nullable {
		ref.Nullable = true
	}
	return ref
}

// Callable implements the engine's callable source.
func (s *Store) Callable(id string) (*typemodel.Callable, bool) {
	var typeParamsJSON, paramsJSON string
	err := s.conn.QueryRow("SELECT type_params, params FROM callables WHERE id = ?", id).
		Scan(&typeParamsJSON, &paramsJSON)
	if err == sql.ErrNoRows {
		return nil, false
	}
	if err != nil {
		s.warnQuery("callables", id, err)
		return nil, false
	}

	c := &typemodel.Callable{ID: id}
	if err := json.Unmarshal([]byte(typeParamsJSON), &c.TypeParams); err != nil {
		s.warnQuery("callables", id, err)
		return nil, false
	}
	var records []paramRecord
	if err := json.Unmarshal([]byte(paramsJSON), &records); err != nil {
		s.warnQuery("callables", id, err)
		return nil, false
	}

	scope := make(map[string]bool, len(c.TypeParams))
	for _, p := range c.TypeParams {
		scope[p] = true
	}
	for _, r := range records {
		ref, err := typemodel.ParseTypeRef(r.Type, scope)
		if err != nil {
			s.warnQuery("callables", id, err)
			return nil, false
		}
		c.Params = append(c.Params, typemodel.CallableParam{Name: r.Name, Type: ref})
	}
	return c, true
}

// CallableIDs returns all stored callable ids in sorted order.
func (s *Store) CallableIDs() ([]string, error) {
	rows, err := s.conn.Query("SELECT id FROM callables ORDER BY id")
	if err != nil {
		return nil, errors.New(errors.StoreUnavailable, "cannot list callables", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errors.New(errors.StoreUnavailable, "cannot list callables", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Callees implements cascade.CallGraphQuery.
func (s *Store) Callees(id cascade.CallableID) []cascade.CallableID {
	rows, err := s.conn.Query("SELECT callee FROM call_edges WHERE caller = ? ORDER BY ord", string(id))
	if err != nil {
		s.warnQuery("call_edges", string(id), err)
		return nil
	}
	defer rows.Close()

	var out []cascade.CallableID
	for rows.Next() {
		var callee string
		if err := rows.Scan(&callee); err != nil {
			s.warnQuery("call_edges", string(id), err)
			return nil
		}
		out = append(out, cascade.CallableID(callee))
	}
	return out
}

func (s *Store) warnQuery(table, key string, err error) {
	s.logger.Warn("store query failed", map[string]interface{}{
		"table": table,
		"key":   key,
		"error": err.Error(),
	})
}
