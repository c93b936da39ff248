/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package cache memoizes expensive calls in a key-value store.

Wrap returns a function with the same signature as the one it wraps. Keys
are content addressed: the caller supplies a KeyFunc that maps parameters to
logical key parts, and the stored key is [Version, parts...]. Values are
JSON encoded as {"timestamp": ..., "value": ...}.

	fetch := cache.Wrap(fetcher.Fetch,
		func(ref pullrequest.Ref) []string {
			return cache.Key("getPullRequestInfoAndComments", ref.Owner, ref.Repo, ref.Number)
		},
		time.Minute, memstore.New(),
	)

Stale entries are never deleted; they are overwritten by the next
successful call. Backends live in memstore and redisstore.
*/
package cache
