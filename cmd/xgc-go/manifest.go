package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"xgc-go/packages/compiler/metadata"
)

// manifest is the on-disk type-metadata format the CLI feeds into a
// StaticOracle. Production builds obtain the same information from the
// assembly-inspection process.
type manifest struct {
	Types []*manifestType `json:"types"`
}

type manifestType struct {
	// MarkupNamespace is the xmlns uri the type is reachable from.
	MarkupNamespace string `json:"markupNamespace"`
	// MarkupName is the element name, defaulting to Name.
	MarkupName string            `json:"markupName,omitempty"`
	Namespace  string            `json:"namespace"`
	Name       string            `json:"name"`
	Assembly   string            `json:"assembly,omitempty"`
	BaseType   string            `json:"baseType,omitempty"`
	Members    []*manifestMember `json:"members,omitempty"`
	// Attached maps attached property names to value-type full names.
	Attached             map[string]string `json:"attached,omitempty"`
	EnumFields           map[string]string `json:"enumFields,omitempty"`
	DependencyProperties map[string]string `json:"dependencyProperties,omitempty"`
	IsCollection         bool              `json:"isCollection,omitempty"`
	IsDictionary         bool              `json:"isDictionary,omitempty"`
}

type manifestMember struct {
	Name         string `json:"name"`
	Kind         string `json:"kind"`
	ValueType    string `json:"valueType,omitempty"`
	IsCollection bool   `json:"isCollection,omitempty"`
	IsDictionary bool   `json:"isDictionary,omitempty"`
	IsEnum       bool   `json:"isEnum,omitempty"`
}

var memberKinds = map[string]metadata.MemberKind{
	"property": metadata.MemberKindProperty,
	"event":    metadata.MemberKindEvent,
	"field":    metadata.MemberKindField,
}

// loadManifest reads a metadata manifest into a fresh StaticOracle
func loadManifest(path string) (*metadata.StaticOracle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	oracle := metadata.NewStaticOracle()
	for _, t := range m.Types {
		entry := &metadata.TypeEntry{
			Ref:                  metadata.TypeRef{Namespace: t.Namespace, Name: t.Name, Assembly: t.Assembly},
			BaseType:             t.BaseType,
			EnumFields:           t.EnumFields,
			DependencyProperties: t.DependencyProperties,
			IsCollection:         t.IsCollection,
			IsDictionary:         t.IsDictionary,
		}
		if len(t.Members) > 0 {
			entry.Members = map[string]*metadata.MemberDescriptor{}
			for _, member := range t.Members {
				kind, ok := memberKinds[member.Kind]
				if !ok {
					return nil, fmt.Errorf("%s: type %s member %s has unknown kind %q",
						path, t.Name, member.Name, member.Kind)
				}
				entry.Members[member.Name] = &metadata.MemberDescriptor{
					Name:         member.Name,
					Kind:         kind,
					ValueType:    splitTypeName(member.ValueType),
					IsCollection: member.IsCollection,
					IsDictionary: member.IsDictionary,
					IsEnum:       member.IsEnum,
				}
			}
		}
		if len(t.Attached) > 0 {
			entry.Attached = map[string]metadata.TypeRef{}
			for prop, valueType := range t.Attached {
				entry.Attached[prop] = splitTypeName(valueType)
			}
		}
		markupName := t.MarkupName
		if markupName == "" {
			markupName = t.Name
		}
		oracle.Register(t.MarkupNamespace, markupName, entry)
	}
	return oracle, nil
}

// splitTypeName turns a dotted full name into a TypeRef
func splitTypeName(full string) metadata.TypeRef {
	if full == "" {
		return metadata.TypeRef{}
	}
	if dot := strings.LastIndexByte(full, '.'); dot >= 0 {
		return metadata.TypeRef{Namespace: full[:dot], Name: full[dot+1:]}
	}
	return metadata.TypeRef{Name: full}
}
