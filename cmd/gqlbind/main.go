// Command gqlbind binds GraphQL schema types to validation models and
// generates Go structs for them.
package main

func main() {
	Execute()
}
