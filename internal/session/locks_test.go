package session_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GibaTrindade/bot-seplag/internal/session"
)

func TestLocks_SerializesSameUser(t *testing.T) {
	locks := session.NewLocks()

	// Without serialization this counter pattern loses updates.
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = locks.With("same-user", func() error {
				counter++
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
}

func TestLocks_IndependentUsersDoNotBlock(t *testing.T) {
	locks := session.NewLocks()

	release := make(chan struct{})
	held := make(chan struct{})

	go func() {
		_ = locks.With("user-a", func() error {
			close(held)
			<-release
			return nil
		})
	}()

	<-held
	// user-b must proceed while user-a's lock is held.
	err := locks.With("user-b", func() error { return nil })
	assert.NoError(t, err)
	close(release)
}

func TestLocks_PropagatesError(t *testing.T) {
	locks := session.NewLocks()
	err := locks.With("user", func() error {
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)
}
