// Package mocks provides shared test doubles for the store and auth interfaces.
//
// UserStore and TaskStore are testify mocks; set expectations with On(...).
// Transactor runs the callback inline with a nil *sql.Tx and counts calls.
// MockJWTService and MockPasswordHasher use function fields with fixed
// defaults:
//
//	tokens := &mocks.MockJWTService{
//	    ValidateTokenFn: func(ctx context.Context, token string) (*auth.Claims, error) {
//	        return &auth.Claims{Subject: "alice"}, nil
//	    },
//	}
package mocks
