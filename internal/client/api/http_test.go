package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTPClient(srv.URL, "ar", 5*time.Second)
}

func TestHTTPClient_SendsHeaders(t *testing.T) {
	var got http.Header
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = w.Write([]byte(`{"errorCode":0,"data":{"items":[],"total":0,"deliveryFees":0}}`))
	})
	client.SetToken("tok-123")

	_, err := client.GetCartItems(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-123", got.Get("Authorization"))
	assert.Equal(t, "ar", got.Get("lang"))
	assert.NotEmpty(t, got.Get("X-Request-Id"))
}

func TestHTTPClient_NoAuthHeaderWithoutToken(t *testing.T) {
	var got http.Header
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = w.Write([]byte(`{"errorCode":0,"data":[]}`))
	})

	_, err := client.GetAllBooks(context.Background(), 1, 100)
	require.NoError(t, err)
	assert.Empty(t, got.Get("Authorization"))
}

func TestHTTPClient_Login(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/Users/login", r.URL.Path)
		require.Equal(t, contentTypeJSON, r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "0109", body["phoneNumber"])
		assert.Equal(t, "pw", body["password"])
		assert.Equal(t, true, body["isPersist"])

		_, _ = w.Write([]byte(`{"errorCode":0,"data":{"token":"abc","fullName":"Ali","userId":"u1","money":100}}`))
	})

	id, err := client.Login(context.Background(), "0109", "pw")
	require.NoError(t, err)
	assert.Equal(t, "abc", id.Token)
	assert.Equal(t, "Ali", id.UserName)
	assert.Equal(t, "0109", id.PhoneNumber)
	assert.Equal(t, "u1", id.StudentID)
	assert.Equal(t, 100.0, id.WalletBalance)
}

func TestHTTPClient_Login_ApplicationError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"errorCode":5,"errorMessage":"wrong password"}`))
	})

	_, err := client.Login(context.Background(), "0109", "pw")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 5, apiErr.Code)
	assert.Equal(t, "wrong password", apiErr.Message)
}

func TestHTTPClient_CheckStudentData(t *testing.T) {
	t.Run("profile object", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/Students/CheckStudentData", r.URL.Path)
			_, _ = w.Write([]byte(`{"errorCode":0,"data":{"fullName":"Ali Hassan"}}`))
		})

		p, err := client.CheckStudentData(context.Background())
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, "Ali Hassan", p.FullName)
	})

	t.Run("boolean payload means no profile", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"errorCode":0,"data":true}`))
		})

		p, err := client.CheckStudentData(context.Background())
		require.NoError(t, err)
		assert.Nil(t, p)
	})
}

func TestHTTPClient_GetCartItems(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/Order/GetCartItems", r.URL.Path)
		_, _ = w.Write([]byte(`{"errorCode":0,"data":{
			"items":[{"id":1,"booKId":5,"bookName":"Algebra","price":30,"quantity":1,"subTotal":30}],
			"total":30,"deliveryFees":10}}`))
	})

	cart, err := client.GetCartItems(context.Background())
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, int64(5), cart.Items[0].BookID)
	assert.Equal(t, "Algebra", cart.Items[0].BookName)
	assert.Equal(t, 30.0, cart.Total)
	assert.Equal(t, 10.0, cart.DeliveryFees)
}

func TestHTTPClient_DeleteCartItem_QueryParam(t *testing.T) {
	var gotQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/api/Order/DeleteCartItem", r.URL.Path)
		gotQuery = r.URL.Query().Get("itemId")
		_, _ = w.Write([]byte(`{"errorCode":0}`))
	})

	require.NoError(t, client.DeleteCartItem(context.Background(), 17))
	assert.Equal(t, "17", gotQuery)
}

func TestHTTPClient_PayLectures_PlainOK(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/OnlineSubSubjects/PayOnlineSubSubjectLectures", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "7", body["onlineSubSubjectId"])

		// backend answers plain text, not the envelope
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("ok"))
	})

	require.NoError(t, client.PayLectures(context.Background(), "7"))
}

func TestHTTPClient_PayLectures_FailureStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	err := client.PayLectures(context.Background(), "7")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestHTTPClient_Unauthorized(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.GetCartItems(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestHTTPClient_MalformedJSONIsFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>gateway error</html>`))
	})

	_, err := client.GetCartItems(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestHTTPClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()
	client := NewHTTPClient(srv.URL, "ar", time.Second)

	_, err := client.GetCartItems(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestHTTPClient_GetAllBooks_Paging(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/Books/GetAllBooks", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("PageNumber"))
		assert.Equal(t, "50", r.URL.Query().Get("PageSize"))
		_, _ = w.Write([]byte(`{"errorCode":0,"data":[{"id":1,"name":"Algebra","price":30}]}`))
	})

	books, err := client.GetAllBooks(context.Background(), 2, 50)
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Algebra", books[0].Name)
}
