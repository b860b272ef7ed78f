// SPDX-License-Identifier: MPL-2.0

// Package recipecache defines the serialized shape of recipes.cache, shared
// by the cache daemon (writer) and the cache client (reader).
package recipecache
