// Package http provides optional HTTP adapters for the markitup editor.
//
// Routes mount on a chi router:
//   - Preview: POST /markitup/preview/ renders untrusted markup without
//     persisting it
//   - Static assets: /static/markitup/... from the embedded bundle or an
//     override directory
//   - Documents: /markitup/api/documents, /markitup/api/documents/{id},
//     /markitup/api/documents/rerender
//   - Formatters: /markitup/api/formatters
//
// Host applications can mount only the pieces they need.
package http
