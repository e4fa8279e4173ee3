package graph

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// Wire types for the POWERMART repository export format. Attribute casing
// follows the export DTD.

type xmlDocument struct {
	XMLName      xml.Name        `xml:"POWERMART"`
	Repositories []xmlRepository `xml:"REPOSITORY"`
}

type xmlRepository struct {
	Name    string      `xml:"NAME,attr"`
	Folders []xmlFolder `xml:"FOLDER"`
}

type xmlFolder struct {
	Name     string       `xml:"NAME,attr"`
	Sources  []xmlEntity  `xml:"SOURCE"`
	Targets  []xmlEntity  `xml:"TARGET"`
	Mappings []xmlMapping `xml:"MAPPING"`
}

type xmlMapping struct {
	Name            string              `xml:"NAME,attr"`
	Description     string              `xml:"DESCRIPTION,attr"`
	Sources         []xmlEntity         `xml:"SOURCE"`
	Targets         []xmlEntity         `xml:"TARGET"`
	Transformations []xmlTransformation `xml:"TRANSFORMATION"`
	Connectors      []xmlConnector      `xml:"CONNECTOR"`
}

type xmlEntity struct {
	Name         string     `xml:"NAME,attr"`
	DatabaseType string     `xml:"DATABASETYPE,attr"`
	Owner        string     `xml:"OWNERNAME,attr"`
	SourceFields []xmlField `xml:"SOURCEFIELD"`
	TargetFields []xmlField `xml:"TARGETFIELD"`
}

type xmlField struct {
	Name      string `xml:"NAME,attr"`
	DataType  string `xml:"DATATYPE,attr"`
	Precision string `xml:"PRECISION,attr"`
	Scale     string `xml:"SCALE,attr"`
	Nullable  string `xml:"NULLABLE,attr"`
	KeyType   string `xml:"KEYTYPE,attr"`
}

type xmlTransformation struct {
	Name        string         `xml:"NAME,attr"`
	Type        string         `xml:"TYPE,attr"`
	Description string         `xml:"DESCRIPTION,attr"`
	Fields      []xmlTransform `xml:"TRANSFORMFIELD"`
	Attributes  []xmlAttribute `xml:"TABLEATTRIBUTE"`
}

type xmlTransform struct {
	Name       string `xml:"NAME,attr"`
	DataType   string `xml:"DATATYPE,attr"`
	Precision  string `xml:"PRECISION,attr"`
	Scale      string `xml:"SCALE,attr"`
	PortType   string `xml:"PORTTYPE,attr"`
	Expression string `xml:"EXPRESSION,attr"`
}

type xmlAttribute struct {
	Name  string `xml:"NAME,attr"`
	Value string `xml:"VALUE,attr"`
}

type xmlConnector struct {
	FromInstance string `xml:"FROMINSTANCE,attr"`
	ToInstance   string `xml:"TOINSTANCE,attr"`
	FromField    string `xml:"FROMFIELD,attr"`
	ToField      string `xml:"TOFIELD,attr"`
}

// ParseFile parses one repository export and returns the mappings it holds.
// Folder-level source and target declarations are merged into each mapping
// that does not redeclare its own.
func ParseFile(path string) ([]*Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading mapping file %s: %w", path, err)
	}

	var doc xmlDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing mapping file %s: %w", path, err)
	}

	var mappings []*Mapping
	for _, repo := range doc.Repositories {
		for _, folder := range repo.Folders {
			for _, xm := range folder.Mappings {
				m := buildMapping(xm, folder)
				log.Info().
					Str("mapping", m.Name).
					Int("nodes", len(m.Nodes)).
					Int("edges", len(m.Edges)).
					Msg("parsed mapping")
				mappings = append(mappings, m)
			}
		}
	}

	if len(mappings) == 0 {
		return nil, fmt.Errorf("no mapping found in %s", path)
	}
	return mappings, nil
}

// ParseDir parses every .xml file in a directory. A file that fails to parse
// is logged and skipped so one bad export does not sink the batch.
func ParseDir(dir string) ([]*Mapping, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading mapping directory %s: %w", dir, err)
	}

	var mappings []*Mapping
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".xml") {
			continue
		}
		parsed, err := ParseFile(filepath.Join(dir, e.Name()))
		if err != nil {
			log.Error().Err(err).Str("file", e.Name()).Msg("skipping mapping file")
			continue
		}
		mappings = append(mappings, parsed...)
	}

	log.Info().Int("mappings", len(mappings)).Str("dir", dir).Msg("mapping directory parsed")
	return mappings, nil
}

func buildMapping(xm xmlMapping, folder xmlFolder) *Mapping {
	m := &Mapping{Name: xm.Name, Description: xm.Description}

	srcs := xm.Sources
	if len(srcs) == 0 {
		srcs = folder.Sources
	}
	for _, s := range srcs {
		m.Sources = append(m.Sources, buildEntity(s, s.SourceFields))
	}

	tgts := xm.Targets
	if len(tgts) == 0 {
		tgts = folder.Targets
	}
	for _, t := range tgts {
		m.Targets = append(m.Targets, buildEntity(t, t.TargetFields))
	}

	for _, xt := range xm.Transformations {
		node := &Node{
			Name:        xt.Name,
			Kind:        ParseNodeKind(xt.Type),
			RawType:     xt.Type,
			Description: xt.Description,
			Properties:  make(map[string]string, len(xt.Attributes)),
		}
		for _, f := range xt.Fields {
			node.Ports = append(node.Ports, Port{
				Name:       f.Name,
				DataType:   f.DataType,
				Precision:  atoiOrZero(f.Precision),
				Scale:      atoiOrZero(f.Scale),
				PortType:   f.PortType,
				Expression: f.Expression,
			})
		}
		for _, a := range xt.Attributes {
			node.Properties[a.Name] = a.Value
		}
		m.Nodes = append(m.Nodes, node)
	}

	for _, c := range xm.Connectors {
		m.Edges = append(m.Edges, Edge{
			FromNode:  c.FromInstance,
			FromField: c.FromField,
			ToNode:    c.ToInstance,
			ToField:   c.ToField,
		})
	}

	return m
}

func buildEntity(xe xmlEntity, fields []xmlField) *Entity {
	e := &Entity{
		Name:         xe.Name,
		DatabaseType: xe.DatabaseType,
		Owner:        xe.Owner,
	}
	for _, f := range fields {
		e.Fields = append(e.Fields, Field{
			Name:      f.Name,
			DataType:  f.DataType,
			Precision: atoiOrZero(f.Precision),
			Scale:     atoiOrZero(f.Scale),
			Nullable:  strings.EqualFold(f.Nullable, "NULL") || f.Nullable == "",
			KeyType:   f.KeyType,
		})
	}
	return e
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
