package middleware

import (
	"sync"
)

var _ sessionValidator = &sessionValidatorMock{}

type sessionValidatorMock struct {
	ValidateSessionFunc func(token string) (string, error)

	calls struct {
		ValidateSession []struct {
			Token string
		}
	}
	lockValidateSession sync.RWMutex
}

func (mock *sessionValidatorMock) ValidateSession(token string) (string, error) {
	if mock.ValidateSessionFunc == nil {
		panic("sessionValidatorMock.ValidateSessionFunc: method is nil but sessionValidator.ValidateSession was just called")
	}
	callInfo := struct {
		Token string
	}{
		Token: token,
	}
	mock.lockValidateSession.Lock()
	mock.calls.ValidateSession = append(mock.calls.ValidateSession, callInfo)
	mock.lockValidateSession.Unlock()
	return mock.ValidateSessionFunc(token)
}

func (mock *sessionValidatorMock) ValidateSessionCalls() []struct {
	Token string
} {
	var calls []struct {
		Token string
	}
	mock.lockValidateSession.RLock()
	calls = mock.calls.ValidateSession
	mock.lockValidateSession.RUnlock()
	return calls
}
