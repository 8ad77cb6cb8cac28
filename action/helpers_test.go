package action

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/smallnest/kwilsquid/kwil"
)

type queryResult struct {
	resp *kwil.TxQueryResponse
	err  error
}

func pending() queryResult {
	return queryResult{resp: &kwil.TxQueryResponse{TxResult: &kwil.TxResult{Log: kwil.LogPending}}}
}

func success() queryResult {
	return queryResult{resp: &kwil.TxQueryResponse{TxResult: &kwil.TxResult{Log: kwil.LogSuccess}}}
}

func rejected(log string) queryResult {
	return queryResult{resp: &kwil.TxQueryResponse{TxResult: &kwil.TxResult{Code: 1, Log: log}}}
}

func unreachable() queryResult {
	return queryResult{err: errors.New("transaction not found")}
}

// fakeClient replays scripted query results in order. Once exhausted the
// last result repeats.
type fakeClient struct {
	mu           sync.Mutex
	hash         []byte
	results      []queryResult
	queries      int
	broadcast    []*kwil.Transaction
	broadcastErr error
	accountErr   error
	chainInfo    int
}

func newFakeClient(results ...queryResult) *fakeClient {
	return &fakeClient{hash: []byte{0xde, 0xad}, results: results}
}

func (c *fakeClient) Broadcast(_ context.Context, tx *kwil.Transaction) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.broadcastErr != nil {
		return nil, c.broadcastErr
	}
	c.broadcast = append(c.broadcast, tx)
	return c.hash, nil
}

func (c *fakeClient) TxQuery(context.Context, []byte) (*kwil.TxQueryResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.queries
	if i >= len(c.results) {
		i = len(c.results) - 1
	}
	c.queries++
	return c.results[i].resp, c.results[i].err
}

func (c *fakeClient) Account(_ context.Context, id []byte) (*kwil.Account, error) {
	if c.accountErr != nil {
		return nil, c.accountErr
	}
	return &kwil.Account{Identifier: id, Nonce: 1}, nil
}

func (c *fakeClient) ChainInfo(context.Context) (*kwil.ChainInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.chainInfo++
	return &kwil.ChainInfo{ChainID: "kwil-test"}, nil
}

func (c *fakeClient) queryCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queries
}

// fakeClock advances instantly and records every requested wait.
type fakeClock struct {
	mu    sync.Mutex
	now   time.Time
	waits []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1700000000, 0)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	c.waits = append(c.waits, d)
	ch := make(chan time.Time, 1)
	ch <- c.now
	return ch
}

func (c *fakeClock) Waits() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.waits...)
}

type fakeSigner struct {
	mu      sync.Mutex
	pubKeys int
}

func (s *fakeSigner) Sign(context.Context, []byte) (*kwil.Signature, error) {
	return &kwil.Signature{Signature: []byte("sig"), Type: "fake"}, nil
}

func (s *fakeSigner) PublicKey(context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pubKeys++
	return []byte{0x04, 0xaa}, nil
}

func decodePayloadDBID(t interface{ Fatalf(string, ...any) }, tx *kwil.Transaction) string {
	var payload struct {
		DBID string `json:"dbid"`
	}
	if err := json.Unmarshal(tx.Body.Payload, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	return payload.DBID
}
