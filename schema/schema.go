// Package schema bundles the JSON Schemas for flag definition and
// deployment documents and compiles them once per process.
//
// The schema sources are embedded at build time; cmd/schemagen
// regenerates them from the schemagen package.
package schema

import (
	"bytes"
	_ "embed"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Bundled schema identifiers.
const (
	DefinitionsName = "flag-definitions.schema.v1.json"
	DeploymentName  = "flag-deployment.schema.v1.json"
)

//go:embed flag-definitions.schema.v1.json
var definitionsJSON []byte

//go:embed flag-deployment.schema.v1.json
var deploymentJSON []byte

// DefinitionsJSON returns the embedded flag definitions schema source.
func DefinitionsJSON() []byte { return bytes.Clone(definitionsJSON) }

// DeploymentJSON returns the embedded flag deployment schema source.
func DeploymentJSON() []byte { return bytes.Clone(deploymentJSON) }

var compileDefinitions = sync.OnceValues(func() (*jsonschema.Schema, error) {
	return compile(DefinitionsName, definitionsJSON)
})

var compileDeployment = sync.OnceValues(func() (*jsonschema.Schema, error) {
	return compile(DeploymentName, deploymentJSON)
})

// Definitions returns the compiled flag definitions schema.
func Definitions() (*jsonschema.Schema, error) {
	return compileDefinitions()
}

// Deployment returns the compiled flag deployment schema.
func Deployment() (*jsonschema.Schema, error) {
	return compileDeployment()
}

func compile(name string, src []byte) (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft7

	err := c.AddResource(name, bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("adding schema %s: %w", name, err)
	}

	compiled, err := c.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compiling schema %s: %w", name, err)
	}

	return compiled, nil
}
