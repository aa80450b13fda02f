package eventmux

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type HooksSuite struct {
	suite.Suite
}

func TestHooksSuite(t *testing.T) {
	suite.Run(t, new(HooksSuite))
}

func (s *HooksSuite) TestDispatchAndSuccess() {
	var dispatched, succeeded []string

	b := New(
		WithOnDispatch(func(ctx context.Context, kind Kind, key string) {
			dispatched = append(dispatched, kind.String()+"/"+key)
		}),
		WithOnSuccess(func(ctx context.Context, kind Kind, key string, d time.Duration) {
			succeeded = append(succeeded, key)
		}),
	)
	b.SQS(SQSRoute{Queue: "orders", Sequential: true}, nopHandler())
	mux := b.Build()

	_, err := mux.DispatchSQS(context.Background(), sqsEvent("orders", "1", "2"))
	s.Require().NoError(err)

	s.Equal([]string{"sqs/orders", "sqs/orders"}, dispatched)
	s.Equal([]string{"orders", "orders"}, succeeded)
}

func (s *HooksSuite) TestFailure() {
	var failures []error

	b := New(WithOnFailure(func(ctx context.Context, kind Kind, key string, err error, d time.Duration) {
		failures = append(failures, err)
	}))
	b.SQS(SQSRoute{Sequential: true}, HandlerFunc(func(ctx context.Context, rec *Record) error {
		return errors.New("boom")
	}))
	mux := b.Build()

	_, err := mux.DispatchSQS(context.Background(), sqsEvent("orders", "1"))
	s.Require().NoError(err)

	s.Len(failures, 1)
	s.EqualError(failures[0], "boom")
}

func (s *HooksSuite) TestNotFound() {
	var missed []string

	b := New(WithOnNotFound(func(ctx context.Context, kind Kind, key string) {
		missed = append(missed, kind.String()+"/"+key)
	}))
	b.SQS(SQSRoute{Queue: "payments", Sequential: true}, nopHandler())
	mux := b.Build()

	_, err := mux.DispatchSQS(context.Background(), sqsEvent("orders", "1"))
	s.Require().NoError(err)

	s.Equal([]string{"sqs/orders"}, missed)
}

func (s *HooksSuite) TestUnknown() {
	var raw []byte

	b := New(WithOnUnknown(func(ctx context.Context, payload []byte) {
		raw = payload
	}))
	mux := b.Build()

	_, err := mux.Invoke(context.Background(), []byte(`{"mystery":true}`))
	s.Require().NoError(err)
	s.JSONEq(`{"mystery":true}`, string(raw))
}

func (s *HooksSuite) TestMultipleHooksCalledInOrder() {
	var order []string

	b := New(
		WithOnDispatch(func(ctx context.Context, kind Kind, key string) {
			order = append(order, "first")
		}),
		WithOnDispatch(func(ctx context.Context, kind Kind, key string) {
			order = append(order, "second")
		}),
	)
	b.SQS(SQSRoute{Sequential: true}, nopHandler())
	mux := b.Build()

	_, err := mux.DispatchSQS(context.Background(), sqsEvent("orders", "1"))
	s.Require().NoError(err)

	s.Equal([]string{"first", "second"}, order)
}

func (s *HooksSuite) TestSwallowedErrorCountsAsSuccess() {
	var succeeded, failed int

	b := New(
		WithErrorHandler(func(ctx context.Context, rec *Record, err error) error {
			return nil
		}),
		WithOnSuccess(func(ctx context.Context, kind Kind, key string, d time.Duration) {
			succeeded++
		}),
		WithOnFailure(func(ctx context.Context, kind Kind, key string, err error, d time.Duration) {
			failed++
		}),
	)
	b.SQS(SQSRoute{Sequential: true}, HandlerFunc(func(ctx context.Context, rec *Record) error {
		return errors.New("boom")
	}))
	mux := b.Build()

	_, err := mux.DispatchSQS(context.Background(), sqsEvent("orders", "1"))
	s.Require().NoError(err)

	s.Equal(1, succeeded)
	s.Equal(0, failed)
}
