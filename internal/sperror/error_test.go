package sperror_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/surplusmkt/surplus/internal/sperror"
)

func TestNew(t *testing.T) {
	err := sperror.New("Could not get items.")
	assert.EqualError(t, err, "Could not get items.")
	assert.Equal(t, http.StatusInternalServerError, sperror.StatusCode(err))

	payload, merr := json.Marshal(err)
	assert.NoError(t, merr)
	assert.JSONEq(t, `{"error":{"message":"Could not get items."}}`, string(payload))
}

func TestNewWithTagCode(t *testing.T) {
	err := sperror.NewWithTagCode(http.StatusUnauthorized, "invalid-auth", "Invalid login credentials.")
	assert.EqualError(t, err, "Invalid login credentials.")
	assert.Equal(t, http.StatusUnauthorized, sperror.StatusCode(err))

	payload, merr := json.Marshal(err)
	assert.NoError(t, merr)
	assert.JSONEq(t, `{"error":{"tag":"invalid-auth","message":"Invalid login credentials."}}`, string(payload))
}

func TestStatusCodeForForeignError(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, sperror.StatusCode(errors.New("boom")))
}
