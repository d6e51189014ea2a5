package errors

import (
	"errors"
	"fmt"
)

type ErrorDump struct {
	TopMessage string `json:"top_message"`
	Code       Code   `json:"code,omitempty"`

	Chain []string `json:"chain,omitempty"`

	UpstreamStatus   int    `json:"upstream_status,omitempty"`
	UpstreamEndpoint string `json:"upstream_endpoint,omitempty"`
}

// upstreamDetail is implemented by errors originating from remote API calls.
type upstreamDetail interface {
	UpstreamStatus() int
	UpstreamEndpoint() string
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{
		TopMessage: err.Error(),
	}

	if te := As(err); te != nil {
		d.Code = te.Code()
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	var up upstreamDetail
	if errors.As(err, &up) {
		d.UpstreamStatus = up.UpstreamStatus()
		d.UpstreamEndpoint = up.UpstreamEndpoint()
	}

	return d
}
