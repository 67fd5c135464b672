// Package mock provides func-field implementations of the domain interfaces
// for tests.
package mock

import (
	"context"
	"io"
	"sync"

	"github.com/m-mizutani/doclingo/pkg/domain/interfaces"
	"github.com/m-mizutani/doclingo/pkg/domain/model"
)

// Ensure, that ConverterMock does implement interfaces.Converter.
var _ interfaces.Converter = &ConverterMock{}

// ConverterMock is a mock implementation of interfaces.Converter.
type ConverterMock struct {
	// ConvertFunc mocks the Convert method.
	ConvertFunc func(ctx context.Context, src model.Source) (*model.Document, error)

	// NameFunc mocks the Name method.
	NameFunc func() string

	// calls tracks calls to the methods.
	calls struct {
		// Convert holds details about calls to the Convert method.
		Convert []struct {
			// Ctx is the ctx argument value.
			Ctx context.Context
			// Src is the src argument value.
			Src model.Source
		}
		// Name holds details about calls to the Name method.
		Name []struct {
		}
	}
	lockConvert sync.RWMutex
	lockName    sync.RWMutex
}

// Convert calls ConvertFunc.
func (mock *ConverterMock) Convert(ctx context.Context, src model.Source) (*model.Document, error) {
	if mock.ConvertFunc == nil {
		panic("ConverterMock.ConvertFunc: method is nil but Converter.Convert was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Src model.Source
	}{
		Ctx: ctx,
		Src: src,
	}
	mock.lockConvert.Lock()
	mock.calls.Convert = append(mock.calls.Convert, callInfo)
	mock.lockConvert.Unlock()
	return mock.ConvertFunc(ctx, src)
}

// ConvertCalls gets all the calls that were made to Convert.
// Check the length with:
//
//	len(mockedConverter.ConvertCalls())
func (mock *ConverterMock) ConvertCalls() []struct {
	Ctx context.Context
	Src model.Source
} {
	var calls []struct {
		Ctx context.Context
		Src model.Source
	}
	mock.lockConvert.RLock()
	calls = mock.calls.Convert
	mock.lockConvert.RUnlock()
	return calls
}

// Name calls NameFunc.
func (mock *ConverterMock) Name() string {
	if mock.NameFunc == nil {
		panic("ConverterMock.NameFunc: method is nil but Converter.Name was just called")
	}
	callInfo := struct {
	}{}
	mock.lockName.Lock()
	mock.calls.Name = append(mock.calls.Name, callInfo)
	mock.lockName.Unlock()
	return mock.NameFunc()
}

// NameCalls gets all the calls that were made to Name.
// Check the length with:
//
//	len(mockedConverter.NameCalls())
func (mock *ConverterMock) NameCalls() []struct {
} {
	var calls []struct {
	}
	mock.lockName.RLock()
	calls = mock.calls.Name
	mock.lockName.RUnlock()
	return calls
}

// Ensure, that StagerMock does implement interfaces.Stager.
var _ interfaces.Stager = &StagerMock{}

// StagerMock is a mock implementation of interfaces.Stager.
type StagerMock struct {
	// WithFunc mocks the With method.
	WithFunc func(ctx context.Context, ext string, r io.Reader, fn func(ctx context.Context, path string) error) error

	// calls tracks calls to the methods.
	calls struct {
		// With holds details about calls to the With method.
		With []struct {
			// Ctx is the ctx argument value.
			Ctx context.Context
			// Ext is the ext argument value.
			Ext string
			// R is the r argument value.
			R io.Reader
			// Fn is the fn argument value.
			Fn func(ctx context.Context, path string) error
		}
	}
	lockWith sync.RWMutex
}

// With calls WithFunc.
func (mock *StagerMock) With(ctx context.Context, ext string, r io.Reader, fn func(ctx context.Context, path string) error) error {
	if mock.WithFunc == nil {
		panic("StagerMock.WithFunc: method is nil but Stager.With was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Ext string
		R   io.Reader
		Fn  func(ctx context.Context, path string) error
	}{
		Ctx: ctx,
		Ext: ext,
		R:   r,
		Fn:  fn,
	}
	mock.lockWith.Lock()
	mock.calls.With = append(mock.calls.With, callInfo)
	mock.lockWith.Unlock()
	return mock.WithFunc(ctx, ext, r, fn)
}

// WithCalls gets all the calls that were made to With.
// Check the length with:
//
//	len(mockedStager.WithCalls())
func (mock *StagerMock) WithCalls() []struct {
	Ctx context.Context
	Ext string
	R   io.Reader
	Fn  func(ctx context.Context, path string) error
} {
	var calls []struct {
		Ctx context.Context
		Ext string
		R   io.Reader
		Fn  func(ctx context.Context, path string) error
	}
	mock.lockWith.RLock()
	calls = mock.calls.With
	mock.lockWith.RUnlock()
	return calls
}

// Ensure, that ConvertUseCaseMock does implement interfaces.ConvertUseCase.
var _ interfaces.ConvertUseCase = &ConvertUseCaseMock{}

// ConvertUseCaseMock is a mock implementation of interfaces.ConvertUseCase.
type ConvertUseCaseMock struct {
	// ConvertBatchFunc mocks the ConvertBatch method.
	ConvertBatchFunc func(ctx context.Context, uploads []*model.Upload, format string) (*model.BatchSummary, error)

	// ConvertFileFunc mocks the ConvertFile method.
	ConvertFileFunc func(ctx context.Context, upload *model.Upload, format string) (*model.ConvertResponse, error)

	// ConvertURLFunc mocks the ConvertURL method.
	ConvertURLFunc func(ctx context.Context, url string, format string) (*model.ConvertURLResponse, error)
}

// ConvertBatch calls ConvertBatchFunc.
func (mock *ConvertUseCaseMock) ConvertBatch(ctx context.Context, uploads []*model.Upload, format string) (*model.BatchSummary, error) {
	if mock.ConvertBatchFunc == nil {
		panic("ConvertUseCaseMock.ConvertBatchFunc: method is nil but ConvertUseCase.ConvertBatch was just called")
	}
	return mock.ConvertBatchFunc(ctx, uploads, format)
}

// ConvertFile calls ConvertFileFunc.
func (mock *ConvertUseCaseMock) ConvertFile(ctx context.Context, upload *model.Upload, format string) (*model.ConvertResponse, error) {
	if mock.ConvertFileFunc == nil {
		panic("ConvertUseCaseMock.ConvertFileFunc: method is nil but ConvertUseCase.ConvertFile was just called")
	}
	return mock.ConvertFileFunc(ctx, upload, format)
}

// ConvertURL calls ConvertURLFunc.
func (mock *ConvertUseCaseMock) ConvertURL(ctx context.Context, url string, format string) (*model.ConvertURLResponse, error) {
	if mock.ConvertURLFunc == nil {
		panic("ConvertUseCaseMock.ConvertURLFunc: method is nil but ConvertUseCase.ConvertURL was just called")
	}
	return mock.ConvertURLFunc(ctx, url, format)
}
