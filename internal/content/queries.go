package content

// GROQ queries, one per accessor. Projections match the models package.
const (
	analysesQuery = `*[_type == "analysis"] | order(date desc) {
  _id,
  title,
  "slug": slug.current,
  date,
  summary,
  forestLoss,
  activeAlerts,
  "thumbnailUrl": thumbnail.asset->url
}`

	analysisBySlugQuery = `*[_type == "analysis" && (slug.current == $slug || _id == $slug)][0] {
  _id,
  title,
  "slug": slug.current,
  date,
  summary,
  forestLoss,
  activeAlerts,
  "thumbnailUrl": thumbnail.asset->url,
  "content": content[]{
    ...,
    _type == "image" => { "asset": { "_ref": asset._ref, "url": asset->url } }
  }
}`

	blogsQuery = `*[_type == "blog" && defined(slug.current)] | order(coalesce(publishedAt, date) desc) {
  _id,
  title,
  "slug": slug.current,
  author,
  "date": coalesce(publishedAt, date),
  summary,
  tags,
  "thumbnailUrl": thumbnail.asset->url,
  "documentFile": select(
    defined(documentFile) => {
      "url": documentFile.asset->url,
      "originalFilename": documentFile.asset->originalFilename
    },
    null
  )
}`

	blogBySlugQuery = `*[_type == "blog" && (slug.current == $slug || _id == $slug)][0] {
  _id,
  title,
  "slug": slug.current,
  author,
  "date": coalesce(publishedAt, date),
  summary,
  tags,
  "thumbnailUrl": thumbnail.asset->url,
  "content": content[]{
    ...,
    _type == "image" => { "asset": { "_ref": asset._ref, "url": asset->url } }
  },
  "documentFile": select(
    defined(documentFile) => {
      "url": documentFile.asset->url,
      "originalFilename": documentFile.asset->originalFilename
    },
    null
  )
}`

	vlogsQuery = `*[_type == "vlog"] | order(date desc) {
  _id,
  title,
  date,
  summary,
  videoUrl,
  "thumbnailUrl": thumbnail.asset->url
}`
)
