// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"encoding/json"
	"net/http"

	"github.com/nekoyume/nekoyume/peer"
)

// send an JSON encoded reply
func sendReply(w http.ResponseWriter, data interface{}) {
	sendStatus(w, http.StatusOK, data)
}

// a POST outcome with the given status
func sendResult(w http.ResponseWriter, code int, message string) {
	result := peer.Result{
		Result:  peer.ResultSuccess,
		Message: message,
	}
	if http.StatusOK != code {
		result.Result = peer.ResultFailed
	}
	sendStatus(w, code, result)
}

func sendSuccess(w http.ResponseWriter) {
	sendResult(w, http.StatusOK, "")
}

func sendFailed(w http.ResponseWriter, message string) {
	sendResult(w, http.StatusBadRequest, message)
}

func sendStatus(w http.ResponseWriter, code int, data interface{}) {
	text, err := json.Marshal(data)
	if nil != err {
		sendInternalServerError(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	w.Write(text)
}

// selected errors as required above
func sendNotFound(w http.ResponseWriter) {
	sendError(w, "not found", http.StatusNotFound)
}
func sendBadRequest(w http.ResponseWriter, message string) {
	sendError(w, message, http.StatusBadRequest)
}
func sendInternalServerError(w http.ResponseWriter) {
	sendError(w, "internal server error", http.StatusInternalServerError)
}

// to compose JSON error messages
type eType struct {
	Code  int    `json:"code"`
	Error string `json:"error"`
}

// output an error with a JSON body
func sendError(w http.ResponseWriter, message string, code int) {
	text, err := json.Marshal(eType{
		Code:  code,
		Error: message,
	})
	if nil != err {
		// manually composed error just incase JSON fails
		http.Error(w, `{"code":500,"error":"Internal Server Error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	w.Write(text)
}
