// seed genera una migración SQL para poblar el árbol del CV a partir de un
// export JSON (el array de nodos que devuelve GET /cv).
//
// Uso: go run ./cmd/seed [ruta/cv.json]
// Por defecto busca cv.json en el directorio actual.
// Escribe: internal/infrastructure/postgres/migrations/00002_seed_cv.sql
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type nodoJSON struct {
	ID          string         `json:"id"`
	Type        string         `json:"type"`
	ParentID    string         `json:"parentId"`
	Label       string         `json:"label"`
	Description string         `json:"description"`
	Attributes  map[string]any `json:"attributes"`
	PositionX   *int           `json:"positionX"`
	PositionY   *int           `json:"positionY"`
}

type documento struct {
	Nodes []nodoJSON `json:"nodes"`
}

func main() {
	jsonPath := "cv.json"
	if len(os.Args) > 1 {
		jsonPath = os.Args[1]
	}
	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer JSON: %v\n", err)
		os.Exit(1)
	}

	// Acepta tanto el documento {"nodes": [...]} como el array pelado.
	var doc documento
	if err := json.Unmarshal(raw, &doc); err != nil || len(doc.Nodes) == 0 {
		if err := json.Unmarshal(raw, &doc.Nodes); err != nil {
			fmt.Fprintf(os.Stderr, "Decodificar JSON: %v\n", err)
			os.Exit(1)
		}
	}

	// IDs faltantes reciben un UUID; los padres deben insertarse antes que
	// sus hijos por la FK, así que ordenamos por niveles.
	for i := range doc.Nodes {
		if strings.TrimSpace(doc.Nodes[i].ID) == "" {
			doc.Nodes[i].ID = uuid.NewString()
		}
	}
	ordered := orderByLevel(doc.Nodes)

	moduleRoot := findModuleRoot()
	outPath := filepath.Join(moduleRoot, "internal", "infrastructure", "postgres", "migrations", "00002_seed_cv.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	out.WriteString("-- +goose Up\n")
	out.WriteString("-- Datos iniciales del CV, generados con cmd/seed\n")
	for _, n := range ordered {
		writeInsert(out, n)
	}
	out.WriteString("\n-- +goose Down\n")
	out.WriteString("DELETE FROM cv_node;\n")

	fmt.Printf("Generado %s: %d nodos\n", outPath, len(ordered))
}

// orderByLevel devuelve los nodos con cada padre antes que sus hijos.
// Los nodos con parentId desconocido se tratan como raíces.
func orderByLevel(nodes []nodoJSON) []nodoJSON {
	known := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		known[n.ID] = true
	}

	placed := make(map[string]bool, len(nodes))
	var ordered []nodoJSON
	for len(ordered) < len(nodes) {
		progress := false
		for _, n := range nodes {
			if placed[n.ID] {
				continue
			}
			if n.ParentID == "" || !known[n.ParentID] || placed[n.ParentID] {
				ordered = append(ordered, n)
				placed[n.ID] = true
				progress = true
			}
		}
		if !progress {
			// Ciclo en los datos de entrada: insertamos el resto tal cual
			// y dejamos que la FK lo rechace.
			for _, n := range nodes {
				if !placed[n.ID] {
					ordered = append(ordered, n)
					placed[n.ID] = true
				}
			}
		}
	}
	return ordered
}

func writeInsert(out *os.File, n nodoJSON) {
	fmt.Fprintf(out,
		"INSERT INTO cv_node (id, type, parent_id, label, description, attributes, position_x, position_y)\nVALUES ('%s', '%s', %s, '%s', %s, %s, %s, %s);\n",
		escapeSQL(n.ID), escapeSQL(n.Type),
		sqlString(n.ParentID), escapeSQL(n.Label), sqlString(n.Description),
		sqlJSON(n.Attributes), sqlInt(n.PositionX), sqlInt(n.PositionY),
	)
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func sqlString(s string) string {
	if s == "" {
		return "NULL"
	}
	return "'" + escapeSQL(s) + "'"
}

func sqlInt(n *int) string {
	if n == nil {
		return "NULL"
	}
	return fmt.Sprintf("%d", *n)
}

func sqlJSON(attrs map[string]any) string {
	if len(attrs) == 0 {
		return "NULL"
	}
	raw, err := json.Marshal(attrs)
	if err != nil {
		return "NULL"
	}
	return "'" + escapeSQL(string(raw)) + "'::jsonb"
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
