package http1

type parserState uint8

// eStatusLine, eHeaderLine and eBody are what the outer world knows as awaiting the
// status line, awaiting the headers and awaiting the body respectively.
const (
	eStatusLine parserState = iota + 1
	eHeaderLine
	eBody
	eComplete
)

type framing uint8

const (
	// framingNone means there's no body at all, or it is known to be empty.
	framingNone framing = iota
	framingFixed
	framingChunked
	// framingClose marks bodies terminated by the peer closing the connection.
	framingClose
)
