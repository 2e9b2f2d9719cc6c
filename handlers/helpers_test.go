// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"testing"

	"go.uber.org/zap"

	"github.com/danielhkuo/chowsr/finalize"
	"github.com/danielhkuo/chowsr/store"
	"github.com/danielhkuo/chowsr/testutil"
)

type testEnv struct {
	st       *store.Store
	fin      *finalize.Finalizer
	notifier *testutil.FakeNotifier
	finder   *testutil.FakeFinder
	log      *zap.Logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st := testutil.SetupTestStore(t)
	notifier := &testutil.FakeNotifier{}
	return &testEnv{
		st:       st,
		fin:      finalize.New(st, notifier, nil),
		notifier: notifier,
		finder:   &testutil.FakeFinder{},
		log:      zap.NewNop(),
	}
}

// groupRequest builds a request with the {code} path value set the way the
// router would
func groupRequest(method, path, code string, body interface{}) *http.Request {
	req := testutil.MakeRequest(method, path, body, nil)
	req.SetPathValue("code", code)
	return req
}
