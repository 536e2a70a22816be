package accountsdk

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAgeUnmarshal(t *testing.T) {
	t.Parallel()

	cases := map[string]Age{
		`{"age":36}`:     "36",
		`{"age":"36"}`:   "36",
		`{"age":null}`:   "",
		`{}`:             "",
		`{"age":12.5}`:   "12.5",
		`{"age":"abc"}`:  "abc",
		`{"age":true}`:   "true",
		`{"age":"  7 "}`: "  7 ",
	}

	for body, want := range cases {
		t.Run(body, func(t *testing.T) {
			var req ProfileRequest
			require.NoError(t, json.Unmarshal([]byte(body), &req))
			require.Equal(t, want, req.Age)
		})
	}
}

func TestAgeMarshal(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(ProfileRequest{Action: ActionUpdateProfile, Age: AgeOf(36)})
	require.NoError(t, err)
	require.JSONEq(t, `{"action":"update_profile","token":"","age":36}`, string(b))

	b, err = json.Marshal(ProfileRequest{Action: ActionUpdateProfile})
	require.NoError(t, err)
	require.JSONEq(t, `{"action":"update_profile","token":""}`, string(b))

	b, err = json.Marshal(struct {
		Age Age `json:"age"`
	}{Age: "thirty"})
	require.NoError(t, err)
	require.JSONEq(t, `{"age":"thirty"}`, string(b))
}

func TestProfileNullFields(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(Profile{UserID: "u1"})
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))
	for _, key := range []string{"age", "dob", "contact", "address", "city", "country", "bio", "createdAt", "updatedAt"} {
		v, ok := raw[key]
		require.True(t, ok, key)
		require.Nil(t, v, key)
	}
}

func TestParseErrorResponse(t *testing.T) {
	t.Parallel()

	t.Run("envelope", func(t *testing.T) {
		body := []byte(`{"success":false,"message":"Validation failed","errors":{"email":"Email is required"}}`)
		err := parseErrorResponse(&http.Response{StatusCode: http.StatusBadRequest}, body)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
		require.Equal(t, "Validation failed", apiErr.Message)
		require.Equal(t, "Email is required", apiErr.Field("email"))
		require.Contains(t, apiErr.Error(), "email=Email is required")
	})

	t.Run("unknown body", func(t *testing.T) {
		err := parseErrorResponse(&http.Response{StatusCode: http.StatusBadGateway}, []byte("<html>"))

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, "Bad Gateway", apiErr.Message)
	})

	t.Run("success", func(t *testing.T) {
		require.NoError(t, parseErrorResponse(&http.Response{StatusCode: http.StatusOK}, nil))
	})
}
