package utils

import (
	"net/url"
	"path"
)

// URIJoin returns a copy of base whose path is extended with refPath and whose
// query string is replaced by the encoded query. The base URI is not
// modified.
func URIJoin(base *url.URL, refPath string, query url.Values) *url.URL {
	uri := *base

	if base.User != nil {
		uri.User = Ref(*base.User)
	}

	if refPath != "" {
		uri.Path = path.Join("/", base.Path, refPath)
		uri.RawPath = ""
	}

	if len(query) > 0 {
		uri.RawQuery = query.Encode()
	} else {
		uri.RawQuery = ""
	}

	uri.Fragment = ""

	return &uri
}

func URIJoinPath(base *url.URL, refPath string) *url.URL {
	return URIJoin(base, refPath, nil)
}
