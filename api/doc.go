/*
Package api serves the virtual datastore over HTTP.

Routes live under /api/virtual-datastore and speak JSON:

	POST   /stores                                        create a store
	GET    /stores                                        list stores
	DELETE /stores/{store}                                delete a store and its definitions
	POST   /stores/{store}/entities                       register a definition
	GET    /stores/{store}/entities/{entity}/definition   fetch a definition
	POST   /stores/{store}/entities/{entity}/data         create one record or an array of records
	GET    /stores/{store}/entities/{entity}/data/{id}    load a record
	POST   /stores/{store}/entities/{entity}/query        filter records
	POST   /stores/{store}/entities/{entity}/import/json  import a JSON document
	POST   /stores/{store}/aggregate                      join entity types on a shared key

Not-found errors map to 404 and validation errors to 400. /health and
/metrics sit outside the rate-limited prefix.
*/
package api
