package cmd

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"user-registration/pkg/clients/emailgateway"
	"user-registration/pkg/form"
	"user-registration/pkg/logging"
	"user-registration/pkg/models"
	"user-registration/pkg/services"
	"user-registration/pkg/store"
	"user-registration/pkg/store/memory"
)

func newTestCommand(out *bytes.Buffer) *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetOut(out)
	cmd.SetContext(context.Background())
	return cmd
}

type countingStore struct {
	*memory.Store
	created int
}

func (s *countingStore) CreateDocument(ctx context.Context, collection string, doc store.Document) (string, error) {
	id, err := s.Store.CreateDocument(ctx, collection, doc)
	if err == nil {
		s.created++
	}
	return id, err
}

func newTestController(t *testing.T, gatewayStatus int) (*form.Controller, *countingStore) {
	t.Helper()
	gw := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(gatewayStatus)
		_, _ = w.Write([]byte(`{"success":true,"taskId":"task-1"}`))
	}))
	t.Cleanup(gw.Close)

	mem := &countingStore{Store: memory.New()}
	logger := logging.Discard()
	svc := services.NewRegistrationService(mem, emailgateway.NewClient(gw.URL, nil), logger)
	return form.NewController(svc, logger), mem
}

func TestRunRegister_Success(t *testing.T) {
	ctrl, mem := newTestController(t, http.StatusAccepted)
	var out bytes.Buffer

	err := runRegister(newTestCommand(&out), ctrl, models.UserData{
		Email: "john@example.com", FirstName: "John", LastName: "Doe",
	})

	require.NoError(t, err)
	assert.Equal(t, form.MsgSuccess+"\n", out.String())
	assert.Equal(t, 1, mem.created)
}

func TestRunRegister_InvalidInput(t *testing.T) {
	ctrl, mem := newTestController(t, http.StatusAccepted)
	var out bytes.Buffer

	err := runRegister(newTestCommand(&out), ctrl, models.UserData{Email: "nope", LastName: "Doe"})

	require.Error(t, err)
	assert.Equal(t, "email: Please enter a valid email address\nfirstName: First name is required\n", out.String())
	assert.Equal(t, 0, mem.created)
}

func TestRunRegister_GatewayFailure(t *testing.T) {
	ctrl, _ := newTestController(t, http.StatusServiceUnavailable)
	var out bytes.Buffer

	err := runRegister(newTestCommand(&out), ctrl, models.UserData{
		Email: "john@example.com", FirstName: "John", LastName: "Doe",
	})

	require.Error(t, err)
	assert.Contains(t, out.String(), "Email service error: Service Unavailable")
}
