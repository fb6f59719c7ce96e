// Package prodex embeds the prodex product catalog in a Go program.
//
// The client runs the same ranking, suggestion and batch pipelines as the
// HTTP server, directly against a local SQLite or Badger database or a
// remote Redis/Valkey server.
//
//	client, _ := prodex.New(ctx, prodex.WithSQLite("catalog.db"))
//	defer client.Close()
//
//	p, _ := client.Products().Create(ctx, prodex.ProductInput{
//	    Name:     "Desk Lamp",
//	    Category: "Home",
//	    Price:    25,
//	})
//	res, _ := client.Products().Search(ctx, prodex.SearchRequest{Term: "lamp"})
package prodex
