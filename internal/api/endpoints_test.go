package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCreateAccount(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("method = %s, want POST", r.Method)
			}
			if r.URL.Path != "/accounts" {
				t.Errorf("path = %s, want /accounts", r.URL.Path)
			}
			body, _ := io.ReadAll(r.Body)
			if len(body) != 0 {
				t.Errorf("request body = %q, want empty", body)
			}
			w.Write([]byte(`{"address": "0xabc", "public_key": "0xkey"}`))
		}))
		defer server.Close()

		c := NewClient(server.URL)
		acct, err := c.CreateAccount(context.Background())
		if err != nil {
			t.Fatalf("CreateAccount failed: %v", err)
		}
		if acct.Address != "0xabc" {
			t.Errorf("Address = %q, want %q", acct.Address, "0xabc")
		}
		if acct.PublicKey != "0xkey" {
			t.Errorf("PublicKey = %q, want %q", acct.PublicKey, "0xkey")
		}
	})

	t.Run("failure surfaces body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("faucet drained"))
		}))
		defer server.Close()

		c := NewClient(server.URL)
		_, err := c.CreateAccount(context.Background())

		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("error = %v, want *APIError", err)
		}
		if apiErr.Detail() != "faucet drained" {
			t.Errorf("Detail() = %q, want %q", apiErr.Detail(), "faucet drained")
		}
	})
}

func TestGetBalance(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				t.Errorf("method = %s, want GET", r.Method)
			}
			if r.URL.Path != "/accounts/0xabc/balance" {
				t.Errorf("path = %s, want /accounts/0xabc/balance", r.URL.Path)
			}
			w.Write([]byte(`{"balance": 42}`))
		}))
		defer server.Close()

		c := NewClient(server.URL)
		bal, err := c.GetBalance(context.Background(), "0xabc")
		if err != nil {
			t.Fatalf("GetBalance failed: %v", err)
		}
		if bal.Balance != 42 {
			t.Errorf("Balance = %v, want 42", bal.Balance)
		}
	})

	t.Run("escapes address in path", func(t *testing.T) {
		var gotPath string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.EscapedPath()
			w.Write([]byte(`{"balance": 1}`))
		}))
		defer server.Close()

		c := NewClient(server.URL)
		// Reserved characters in an address must not change the route.
		if _, err := c.GetBalance(context.Background(), "0xab/../cd?x"); err != nil {
			t.Fatalf("GetBalance failed: %v", err)
		}
		if want := "/accounts/0xab%2F..%2Fcd%3Fx/balance"; gotPath != want {
			t.Errorf("path = %s, want %s", gotPath, want)
		}
	})

	t.Run("empty address rejected", func(t *testing.T) {
		c := NewClient("http://unused")
		_, err := c.GetBalance(context.Background(), "")
		if !errors.Is(err, ErrEmptyAddress) {
			t.Errorf("error = %v, want ErrEmptyAddress", err)
		}
	})

	t.Run("failure surfaces body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"unknown address"}`))
		}))
		defer server.Close()

		c := NewClient(server.URL)
		_, err := c.GetBalance(context.Background(), "0xdead")

		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("error = %v, want *APIError", err)
		}
		if apiErr.Detail() != `{"error":"unknown address"}` {
			t.Errorf("Detail() = %q, want %q", apiErr.Detail(), `{"error":"unknown address"}`)
		}
	})
}

func TestSendTransaction(t *testing.T) {
	t.Run("sends exact body", func(t *testing.T) {
		var got []byte
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("method = %s, want POST", r.Method)
			}
			if r.URL.Path != "/transactions" {
				t.Errorf("path = %s, want /transactions", r.URL.Path)
			}
			got, _ = io.ReadAll(r.Body)
			w.Write([]byte(`{"hash": "0xtx", "status": "pending"}`))
		}))
		defer server.Close()

		c := NewClient(server.URL)
		res, err := c.SendTransaction(context.Background(), "sender-key", "0xrecv", 100)
		if err != nil {
			t.Fatalf("SendTransaction failed: %v", err)
		}

		want := `{"sender":"sender-key","recipient":"0xrecv","amount":100}`
		if string(got) != want {
			t.Errorf("request body = %s, want %s", got, want)
		}
		if res.Hash != "0xtx" {
			t.Errorf("Hash = %q, want %q", res.Hash, "0xtx")
		}
	})

	t.Run("input validation", func(t *testing.T) {
		c := NewClient("http://unused")

		tests := []struct {
			name      string
			sender    string
			recipient string
			amount    float64
			wantErr   error
		}{
			{"empty sender", "", "0xrecv", 1, ErrEmptySender},
			{"empty recipient", "key", "", 1, ErrEmptyRecipient},
			{"negative amount", "key", "0xrecv", -1, ErrNegativeAmount},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := c.SendTransaction(context.Background(), tt.sender, tt.recipient, tt.amount)
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
			})
		}
	})

	t.Run("zero amount allowed", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"hash": "0xtx"}`))
		}))
		defer server.Close()

		c := NewClient(server.URL)
		if _, err := c.SendTransaction(context.Background(), "key", "0xrecv", 0); err != nil {
			t.Errorf("SendTransaction with zero amount failed: %v", err)
		}
	})

	t.Run("failure surfaces body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("insufficient funds"))
		}))
		defer server.Close()

		c := NewClient(server.URL)
		res, err := c.SendTransaction(context.Background(), "key", "0xrecv", 100)
		if res != nil {
			t.Errorf("result = %v, want nil on failure", res)
		}

		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("error = %v, want *APIError", err)
		}
		if apiErr.Detail() != "insufficient funds" {
			t.Errorf("Detail() = %q, want %q", apiErr.Detail(), "insufficient funds")
		}
	})
}

func TestGetGasEstimate(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/gas-estimate" {
				t.Errorf("path = %s, want /gas-estimate", r.URL.Path)
			}
			w.Write([]byte(`{"gas_estimate": 100, "prioritized_gas_estimate": 150}`))
		}))
		defer server.Close()

		c := NewClient(server.URL)
		est, err := c.GetGasEstimate(context.Background())
		if err != nil {
			t.Fatalf("GetGasEstimate failed: %v", err)
		}
		if est.GasEstimate != 100 {
			t.Errorf("GasEstimate = %d, want 100", est.GasEstimate)
		}
		if est.PrioritizedGasEstimate != 150 {
			t.Errorf("PrioritizedGasEstimate = %d, want 150", est.PrioritizedGasEstimate)
		}
	})

	t.Run("failure surfaces body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte("slow down"))
		}))
		defer server.Close()

		c := NewClient(server.URL)
		_, err := c.GetGasEstimate(context.Background())

		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("error = %v, want *APIError", err)
		}
		if apiErr.Detail() != "slow down" {
			t.Errorf("Detail() = %q, want %q", apiErr.Detail(), "slow down")
		}
	})
}

func TestCallContract(t *testing.T) {
	t.Run("sends exact body", func(t *testing.T) {
		var got []byte
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/contract/call" {
				t.Errorf("path = %s, want /contract/call", r.URL.Path)
			}
			got, _ = io.ReadAll(r.Body)
			w.Write([]byte(`{"result": {"ok": true}}`))
		}))
		defer server.Close()

		c := NewClient(server.URL)
		res, err := c.CallContract(context.Background(), "0xcontract", "transfer", []string{"a", "b"})
		if err != nil {
			t.Fatalf("CallContract failed: %v", err)
		}

		want := `{"contract":"0xcontract","method":"transfer","args":["a","b"]}`
		if string(got) != want {
			t.Errorf("request body = %s, want %s", got, want)
		}
		if string(res.Result) != `{"ok": true}` {
			t.Errorf("Result = %s, want %s", res.Result, `{"ok": true}`)
		}
	})

	t.Run("nil args become empty list", func(t *testing.T) {
		var got []byte
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, _ = io.ReadAll(r.Body)
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		c := NewClient(server.URL)
		if _, err := c.CallContract(context.Background(), "0xcontract", "totals", nil); err != nil {
			t.Fatalf("CallContract failed: %v", err)
		}

		want := `{"contract":"0xcontract","method":"totals","args":[]}`
		if string(got) != want {
			t.Errorf("request body = %s, want %s", got, want)
		}
	})

	t.Run("input validation", func(t *testing.T) {
		c := NewClient("http://unused")

		if _, err := c.CallContract(context.Background(), "", "transfer", nil); !errors.Is(err, ErrEmptyContract) {
			t.Errorf("error = %v, want ErrEmptyContract", err)
		}
		if _, err := c.CallContract(context.Background(), "0xcontract", "", nil); !errors.Is(err, ErrEmptyMethod) {
			t.Errorf("error = %v, want ErrEmptyMethod", err)
		}
	})

	t.Run("failure surfaces body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("abi mismatch"))
		}))
		defer server.Close()

		c := NewClient(server.URL)
		_, err := c.CallContract(context.Background(), "0xcontract", "transfer", []string{"a"})

		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("error = %v, want *APIError", err)
		}
		if apiErr.Detail() != "abi mismatch" {
			t.Errorf("Detail() = %q, want %q", apiErr.Detail(), "abi mismatch")
		}
	})
}
