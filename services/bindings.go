// file: services/bindings.go
package services

import (
	"context"

	"go-facilities-admin/logger"
	"go-facilities-admin/models"
	"go-facilities-admin/resource"
)

// Names of the bindings decoded into typed responses.
const (
	CreateMeeting     = "createMeeting"
	CreateMailInbound = "createMailInbound"
)

// Call is the input of every bound operation.
type Call struct {
	Session Session
	Request Request
}

// Bindings turns endpoint table entries into resource slices.
type Bindings struct {
	client *BackendClient
	table  *EndpointTable
}

// NewBindings returns bindings backed by client and table.
func NewBindings(client *BackendClient, table *EndpointTable) *Bindings {
	return &Bindings{client: client, table: table}
}

// Table returns the endpoint table.
func (b *Bindings) Table() *EndpointTable { return b.table }

// Bind produces a slice whose operation calls the named endpoint and decodes
// the answer into T. Failures carry the backend message, the error text or
// the endpoint fallback, in that order.
func Bind[T any](b *Bindings, name string) (*resource.Slice[Call, T], error) {
	ep, err := b.table.Lookup(name)
	if err != nil {
		return nil, err
	}
	op := func(ctx context.Context, call Call) resource.Result[T] {
		body, err := b.client.Do(ctx, ep, call.Session, call.Request)
		if err != nil {
			return resource.Failed[T](resource.Reason(err, ep.Fallback))
		}
		v, err := Decode[T](body)
		if err != nil {
			logger.Warn.Printf("[Bind] %s: %v", ep.Name, err)
			return resource.Failed[T](ep.Fallback)
		}
		return resource.Succeeded(v)
	}
	return resource.New[Call, T](ep.Name, op), nil
}

// BindAll registers every table entry not yet in store, decoded as any.
func BindAll(b *Bindings, store *resource.Store) error {
	for _, ep := range b.table.All() {
		if store.Has(ep.Name) {
			continue
		}
		slice, err := Bind[any](b, ep.Name)
		if err != nil {
			return err
		}
		if err := store.Register(slice); err != nil {
			return err
		}
	}
	return nil
}

// RegisterAll registers the typed bindings, then every other endpoint.
// It is the init function of each operator store.
func (b *Bindings) RegisterAll(store *resource.Store) error {
	for _, name := range []string{CreateMeeting, CreateMailInbound} {
		if _, err := b.table.Lookup(name); err != nil {
			logger.Warn.Printf("[RegisterAll] %v", err)
			continue
		}
		slice, err := Bind[models.CreatedRecord](b, name)
		if err != nil {
			return err
		}
		if err := store.Register(slice); err != nil {
			return err
		}
	}
	return BindAll(b, store)
}
