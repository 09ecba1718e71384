package flow

import (
	derrors "github.com/matzehuels/dotflow/pkg/errors"
)

// ClusterPrefix is prepended to cluster names so Graphviz draws them as boxes.
const ClusterPrefix = "cluster_"

// Attr is one key/value attribute of a graph or cluster.
type Attr struct {
	Key   string
	Value string
}

// Attrs is an ordered attribute list. Setting an existing key replaces its
// value and keeps its position.
type Attrs []Attr

// Set assigns key to value.
func (a *Attrs) Set(key, value string) {
	for i := range *a {
		if (*a)[i].Key == key {
			(*a)[i].Value = value
			return
		}
	}
	*a = append(*a, Attr{Key: key, Value: value})
}

// Get returns the value for key.
func (a Attrs) Get(key string) (string, bool) {
	for _, kv := range a {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}

func (a Attrs) clone() Attrs { return append(Attrs(nil), a...) }

func newAttr(key, value string) (Attr, error) {
	k, err := derrors.ValidateID(key)
	if err != nil {
		return Attr{}, err
	}
	if err := derrors.ValidateStyleValue(k, value); err != nil {
		return Attr{}, err
	}
	return Attr{Key: k, Value: value}, nil
}

// defaultClusterAttrs is the light grey gradient box every cluster starts with.
func defaultClusterAttrs() Attrs {
	return Attrs{
		{Key: "style", Value: "filled"},
		{Key: "color", Value: "lightgrey"},
		{Key: "fillcolor", Value: "lightgrey:white"},
		{Key: "gradientangle", Value: "90"},
	}
}

// Cluster is a named sub-scope drawn as a box around its nodes.
type Cluster struct {
	scope

	Name   string // user-facing name, without ClusterPrefix
	Label  string
	attrs  Attrs
	parent *Cluster
}

// InternalName returns the subgraph name emitted in DOT, e.g. "cluster_ingest".
func (c *Cluster) InternalName() string { return ClusterPrefix + c.Name }

// Attrs returns a copy of the cluster attributes in insertion order.
func (c *Cluster) Attrs() Attrs { return c.attrs.clone() }

// Parent returns the enclosing cluster, or nil for a top-level cluster.
func (c *Cluster) Parent() *Cluster { return c.parent }

// EnterCluster opens a cluster inside the active scope and makes it active.
//
// If a cluster with that name already exists in the active scope it is
// reopened: its label is replaced and attrs are applied on top of its current
// attributes. An empty label defaults to the name.
func (g *Graph) EnterCluster(name, label string, attrs ...Attr) (*Cluster, error) {
	name, err := derrors.ValidateID(name)
	if err != nil {
		return nil, err
	}
	if err := derrors.ValidateLabel(label, g.maxLabel); err != nil {
		return nil, err
	}
	valid := make([]Attr, 0, len(attrs))
	for _, a := range attrs {
		v, err := newAttr(a.Key, a.Value)
		if err != nil {
			return nil, err
		}
		valid = append(valid, v)
	}
	if label == "" {
		label = name
	}

	parent := g.active()
	c, ok := parent.clusters[name]
	if ok {
		c.Label = label
	} else {
		c = &Cluster{Name: name, Label: label, attrs: defaultClusterAttrs(), parent: g.Scope()}
		c.scope = newScope(c)
		parent.clusters[name] = c
		parent.subOrder = append(parent.subOrder, name)
	}
	for _, a := range valid {
		c.attrs.Set(a.Key, a.Value)
	}

	g.stack = append(g.stack, c)
	g.logger.Debug("enter cluster", "name", name, "depth", len(g.stack), "reopened", ok)
	return c, nil
}

// ExitCluster closes the innermost open cluster and restores the enclosing scope.
func (g *Graph) ExitCluster() error {
	if len(g.stack) == 0 {
		return derrors.New(derrors.ErrCodeScope, "no cluster is open")
	}
	c := g.stack[len(g.stack)-1]
	g.stack = g.stack[:len(g.stack)-1]
	g.logger.Debug("exit cluster", "name", c.Name, "depth", len(g.stack))
	return nil
}

// InCluster runs fn with the named cluster active. The cluster is always
// exited, even when fn returns an error or panics.
func (g *Graph) InCluster(name, label string, fn func(*Graph) error, attrs ...Attr) (err error) {
	if _, err := g.EnterCluster(name, label, attrs...); err != nil {
		return err
	}
	defer func() {
		if exitErr := g.ExitCluster(); err == nil {
			err = exitErr
		}
	}()
	return fn(g)
}
