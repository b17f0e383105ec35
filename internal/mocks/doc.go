// Package mocks provides centralized mock implementations for testing.
//
// The store mocks are in-memory fakes: by default they behave like the
// PostgreSQL stores (not-found and duplicate errors included), and every
// method can be overridden through its Fn field to inject failures.
//
// Usage:
//
// Import the mocks package in your test file and create the required mock:
//
//	import "github.com/phrazzld/console-api/internal/mocks"
//
//	func TestSomething(t *testing.T) {
//	    users := mocks.NewMockUserStore()
//	    users.Users["jdoe"] = &domain.User{Username: "jdoe"}
//	    users.UpdateFn = func(ctx context.Context, u *domain.User) (*domain.User, error) {
//	        return nil, errors.New("boom")
//	    }
//
//	    // Use the mock in your test...
//	}
//
// When adding a new mock to this package:
//  1. Create a new file named after the interface being mocked
//  2. Implement the mock struct with function fields for each interface method
//  3. Document any helper methods or special functionality
//  4. Update existing tests to use the centralized mock implementation
package mocks
