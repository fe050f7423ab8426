// Package httputil holds the request and response helpers of the phylo API
// server.
//
// Handlers decode bodies with [DecodeJSON] and answer with [WriteJSON] or
// [WriteError]. WriteError maps the coded errors of the tree core onto HTTP
// status codes via [StatusFor], so a malformed tree is a 400, an unknown tip
// a 422 and a missing archive record a 404:
//
//	var req AnalyzeRequest
//	if err := httputil.DecodeJSON(r, &req); err != nil {
//	    httputil.WriteError(w, r, err)
//	    return
//	}
//	httputil.WriteJSON(w, http.StatusOK, result)
//
// Every error body carries the request ID stored by [WithRequestID].
package httputil
