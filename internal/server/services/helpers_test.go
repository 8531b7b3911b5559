package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/HazimBhatt/sharefolio/internal/logging"
	"github.com/HazimBhatt/sharefolio/internal/server/auth"
	"github.com/HazimBhatt/sharefolio/internal/server/mail"
	"github.com/HazimBhatt/sharefolio/internal/server/models"
	"github.com/HazimBhatt/sharefolio/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

type recordingMailer struct {
	mu   sync.Mutex
	err  error
	sent []mail.Message
}

func (m *recordingMailer) Send(ctx context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *recordingMailer) last() mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return mail.Message{}
	}
	return m.sent[len(m.sent)-1]
}

type testEnv struct {
	rm         *repomanager.MemoryRepositoryManager
	mailer     *recordingMailer
	issuer     *auth.SessionIssuer
	users      *UserService
	portfolios *PortfolioService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	rm := repomanager.NewMemoryRepositoryManager()
	mailer := &recordingMailer{}
	issuer := auth.NewSessionIssuer(testSecret, 30*time.Minute)
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	logger := logging.Discard()

	return &testEnv{
		rm:         rm,
		mailer:     mailer,
		issuer:     issuer,
		users:      NewUserService(rm.Store(), rm, issuer, hasher, mailer, 10*time.Minute, logger),
		portfolios: NewPortfolioService(rm.Store(), rm, logger),
	}
}

// signUp registers a user and returns its identity.
func (e *testEnv) signUp(t *testing.T, email string) auth.Identity {
	t.Helper()
	p, err := e.users.SignUp(context.Background(), SignUpInput{Name: "Test", Email: email, Password: "secret123"})
	require.NoError(t, err)
	return auth.Identity{UserID: p.ID, Email: p.Email}
}

func (e *testEnv) user(t *testing.T, id string) *models.User {
	t.Helper()
	u, err := e.rm.Users(nil).GetByID(context.Background(), id)
	require.NoError(t, err)
	return u
}

var errStore = errors.New("connection reset")
