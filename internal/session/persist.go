package session

import "roombook-client/internal/model"

// Partialize selects the fields that survive a restart.
func Partialize(st State) model.PersistedAuth {
	return model.PersistedAuth{
		User:            copyUser(st.User),
		Tokens:          st.Token,
		IsAuthenticated: st.IsAuthenticated,
	}
}

// Hydrate rebuilds a session from its stored form. Transient fields start
// cleared.
func Hydrate(p model.PersistedAuth) State {
	return State{
		User:            copyUser(p.User),
		Token:           p.Tokens,
		IsAuthenticated: p.IsAuthenticated,
	}
}
