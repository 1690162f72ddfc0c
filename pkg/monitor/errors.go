package monitor

import "errors"

// ErrFrameAcquisition is returned by Run when the camera stops delivering
// frames. It is terminal: there is no reconnect.
var ErrFrameAcquisition = errors.New("monitor: frame acquisition failed")
