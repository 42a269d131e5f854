// Copyright 2016-2021 National Technology & Engineering Solutions of Sandia, LLC (NTESS).
// Under the terms of Contract DE-NA0003525 with NTESS, the U.S. Government retains certain
// rights in this software.

package decode

import "errors"

// ErrTruncated is returned whenever a layer decoder needs more bytes than
// the buffer has remaining. Callers never log it -- a truncated or
// malformed packet is silently discarded (see the engine's error model).
var ErrTruncated = errors.New("decode: truncated or malformed packet")
