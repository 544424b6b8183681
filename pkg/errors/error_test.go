package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ErrorTestSuite struct {
	suite.Suite
}

func TestErrorSuite(t *testing.T) {
	suite.Run(t, new(ErrorTestSuite))
}

func (suite *ErrorTestSuite) TestNew() {
	err := New(ErrCodeInvalidParameter, "bad parameter")
	suite.Equal(ErrCodeInvalidParameter, err.Code)
	suite.Equal("[100] bad parameter", err.Error())
	suite.Nil(err.Cause)
}

func (suite *ErrorTestSuite) TestNewf() {
	err := Newf(ErrCodeDataUnavailable, "no data for symbol %s", "AAPL")
	suite.Equal(ErrCodeDataUnavailable, err.Code)
	suite.Contains(err.Error(), "no data for symbol AAPL")
}

func (suite *ErrorTestSuite) TestWrap() {
	cause := fmt.Errorf("connection refused")
	err := Wrap(ErrCodeQueryFailed, "query failed", cause)
	suite.Equal(cause, err.Unwrap())
	suite.Contains(err.Error(), "connection refused")
}

func (suite *ErrorTestSuite) TestGetCode() {
	err := New(ErrCodeCyclicGraph, "cycle detected")
	suite.Equal(ErrCodeCyclicGraph, GetCode(err))
	suite.Equal(ErrCodeUnknown, GetCode(fmt.Errorf("plain error")))
}

func (suite *ErrorTestSuite) TestHasCodeThroughChain() {
	inner := New(ErrCodeEmptySeries, "empty series")
	outer := fmt.Errorf("run failed: %w", inner)
	suite.True(HasCode(outer, ErrCodeEmptySeries))
	suite.False(HasCode(outer, ErrCodeCyclicGraph))
}

func (suite *ErrorTestSuite) TestInsufficientDataError() {
	err := NewInsufficientDataErrorf(20, 5, "AAPL", "need %d bars, have %d", 20, 5)
	suite.True(IsInsufficientDataError(err))
	suite.Equal(20, err.Required)
	suite.Equal(5, err.Actual)

	wrapped := fmt.Errorf("indicator: %w", err)
	suite.True(IsInsufficientDataError(wrapped))
	suite.False(IsInsufficientDataError(fmt.Errorf("other")))
}
