package http

import "errors"

var errUnhealthyPublisher = errors.New("kafka producer is not healthy")
