package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/encoding"
)

func TestCodec_Registered(t *testing.T) {
	c := encoding.GetCodec("json")
	require.NotNil(t, c)
	assert.Equal(t, "json", c.Name())
}

func TestCodec_WireNames(t *testing.T) {
	b, err := Codec{}.Marshal(&LoginResponse{Token: "t", ExpiresIn: 3600})
	require.NoError(t, err)
	assert.JSONEq(t, `{"token":"t","expiresIn":3600}`, string(b))
}

func TestCodec_EmptyBody(t *testing.T) {
	var req PingRequest
	assert.NoError(t, Codec{}.Unmarshal(nil, &req))
}

func TestFullMethod(t *testing.T) {
	assert.Equal(t, "/gophauth.AccountService/Login", FullMethod(MethodLogin))
}

func TestServiceDesc_AllMethods(t *testing.T) {
	var names []string
	for _, m := range AccountServiceDesc.Methods {
		names = append(names, m.MethodName)
	}
	assert.ElementsMatch(t, []string{
		MethodRegister, MethodConfirm, MethodResendVerification, MethodLogin,
		MethodListAccounts, MethodMe, MethodExportAccounts, MethodPing,
	}, names)
}
