package resty

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-resty/resty/v2"
)

type MockFuncResponse struct {
	Request     *resty.Request
	RawResponse *http.Response
	Body        any
}

type MockFunc struct {
	Method     string
	Path       string
	ResultBody func(header any, requestBody any, param ...QueryParam) (MockFuncResponse, error)
}

type mockRestyClient struct {
	mocks map[string]map[string]MockFunc
}

type mockReadyRestyReq struct {
	mocks  map[string]map[string]MockFunc
	body   any
	header any
}

func (client *mockRestyClient) MakeRequest(ctx context.Context, body any, header any, contentType ...string) ReadyRestyReq {
	return &mockReadyRestyReq{mocks: client.mocks, header: header, body: body}
}

func (m *mockReadyRestyReq) Get(url string, queryParams ...QueryParam) (*resty.Response, error) {
	return m.dispatch("GET", url, queryParams...)
}

func (m *mockReadyRestyReq) Post(url string, queryParams ...QueryParam) (*resty.Response, error) {
	return m.dispatch("POST", url, queryParams...)
}

func (m *mockReadyRestyReq) Delete(url string, queryParams ...QueryParam) (*resty.Response, error) {
	return m.dispatch("DELETE", url, queryParams...)
}

func (m *mockReadyRestyReq) dispatch(method, url string, queryParams ...QueryParam) (*resty.Response, error) {
	mockFunc, ok := m.mocks[method][url]
	if !ok {
		return nil, errors.New("mock not found for the requested method and url")
	}

	resultBody, givenError := mockFunc.ResultBody(m.header, m.body, queryParams...)
	resultResponse, createErr := CreateMockResponse(resultBody, givenError)
	if createErr != nil {
		return nil, createErr
	}
	if givenError != nil {
		return resultResponse, givenError
	}
	return resultResponse, nil
}

func CreateMockResponse(givenBody MockFuncResponse, givenError error) (*resty.Response, error) {
	var request *resty.Request
	if givenBody.Request == nil {
		request = &resty.Request{}
	} else {
		request = givenBody.Request
	}
	request.Error = givenError

	byteGivenBody, marshalErr := json.Marshal(givenBody.Body)
	if marshalErr != nil {
		return nil, marshalErr
	}

	statusCode := givenBody.RawResponse.StatusCode

	rawResponse := &http.Response{
		Status:     http.StatusText(statusCode),
		StatusCode: statusCode,
		Body:       io.NopCloser(bytes.NewReader(byteGivenBody)),
		Header:     givenBody.RawResponse.Header,
	}
	restyResp := &resty.Response{
		RawResponse: rawResponse,
		Request:     request,
	}
	restyResp.SetBody(byteGivenBody)
	return restyResp, nil
}
